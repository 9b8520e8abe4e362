package ports

import "github.com/reglet-dev/reglet-rand/domain/entities"

// ManifestParser converts module manifests to and from their text form.
type ManifestParser interface {
	// Parse unmarshals manifest bytes and checks the result is usable.
	Parse(data []byte) (*entities.Manifest, error)

	// Encode renders a manifest. Schemas are not part of the text form.
	Encode(m entities.Manifest) ([]byte, error)
}
