package torrent

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoAnnounce means neither "announce" nor "announce-list" is set. It is
// distinct from an announce-list that is present but empty.
var ErrNoAnnounce = errors.New("torrent: no announce configured")

// SchemaError reports a key whose value does not have the expected shape.
type SchemaError struct {
	Key  string
	Want string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("torrent: %q is not %s", e.Key, e.Want)
}
