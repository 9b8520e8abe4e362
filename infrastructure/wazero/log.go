package wazero

import (
	"context"
	"log/slog"

	guestlog "github.com/reglet-dev/reglet-rand/log"
	"github.com/tetratelabs/wazero/api"
)

// FuncLogMessage is the export name of the guest logging hook.
const FuncLogMessage = "log_message"

// LogMessageHandler returns the log_message hook: (i64) -> (). The argument
// packs a JSON log.LogMessageWire, which is replayed through logger with the
// guest's name as its source. Malformed messages are dropped and reported.
func LogMessageHandler(logger *slog.Logger) CustomHandler {
	return CustomHandler{
		Name:        FuncLogMessage,
		ParamTypes:  []api.ValueType{api.ValueTypeI64},
		ResultTypes: []api.ValueType{},
		Handler: api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			source := guestName(ctx, mod)
			mem := mod.Memory()
			if mem == nil {
				logger.ErrorContext(ctx, "wazero: log_message caller has no memory", "guest", source)
				return
			}

			ptr, length := unpackPtrLen(stack[0])
			data, ok := mem.Read(ptr, length)
			if !ok {
				logger.ErrorContext(ctx, "wazero: failed to read log message from guest memory", "guest", source)
				return
			}

			msg, err := guestlog.DecodeLogMessage(data)
			if err != nil {
				logger.ErrorContext(ctx, "wazero: invalid log message", "guest", source, "error", err)
				return
			}
			msg.Emit(ctx, logger, source)
		}),
	}
}
