package testutil

// GuestResponseOffset is where GuestModule's allocate export places every
// response.
const GuestResponseOffset = 1024

// GuestModule assembles a minimal wasm module that imports
// <hostModule>.<fn>, keeps payload at offset 0 of a one-page memory and
// exports "memory", "allocate" and "run". run calls the import once with
// the packed pointer and length of payload. With withResult the import is
// (i64) -> i64 and run returns its result; otherwise neither returns.
func GuestModule(hostModule, fn string, payload []byte, withResult bool) []byte {
	var importType, runType []byte
	if withResult {
		importType = []byte{0x60, 0x01, 0x7e, 0x01, 0x7e}
		runType = []byte{0x60, 0x00, 0x01, 0x7e}
	} else {
		importType = []byte{0x60, 0x01, 0x7e, 0x00}
		runType = []byte{0x60, 0x00, 0x00}
	}
	allocType := []byte{0x60, 0x01, 0x7f, 0x01, 0x7f}

	types := vec(importType, allocType, runType)
	imports := vec(concat(name(hostModule), name(fn), []byte{0x00, 0x00}))
	funcs := vec([]byte{0x01}, []byte{0x02})
	memory := vec([]byte{0x00, 0x01})
	exports := vec(
		concat(name("memory"), []byte{0x02, 0x00}),
		concat(name("allocate"), []byte{0x00, 0x01}),
		concat(name("run"), []byte{0x00, 0x02}),
	)

	// Pointer 0 in the upper half, length in the lower.
	packed := int64(len(payload))
	allocBody := concat([]byte{0x00, 0x41}, sleb(GuestResponseOffset), []byte{0x0b})
	runBody := concat([]byte{0x00, 0x42}, sleb(packed), []byte{0x10, 0x00, 0x0b})
	code := vec(withSize(allocBody), withSize(runBody))

	data := vec(concat([]byte{0x00, 0x41, 0x00, 0x0b}, uleb(uint64(len(payload))), payload))

	return concat(
		[]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00},
		section(1, types),
		section(2, imports),
		section(3, funcs),
		section(5, memory),
		section(7, exports),
		section(10, code),
		section(11, data),
	)
}

func uleb(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func sleb(v int64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func name(s string) []byte {
	return concat(uleb(uint64(len(s))), []byte(s))
}

func vec(items ...[]byte) []byte {
	return concat(uleb(uint64(len(items))), concat(items...))
}

func withSize(body []byte) []byte {
	return concat(uleb(uint64(len(body))), body)
}

func section(id byte, content []byte) []byte {
	return concat([]byte{id}, withSize(content))
}
