package addon

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// idPrefix marks catalog item IDs minted by this addon. The remainder is
// the base64url-encoded content page URL, so the stream handler can recover
// the page without any server-side state.
const idPrefix = "mdrive:"

// EncodeID mints a catalog item ID from a content page URL.
func EncodeID(pageURL string) string {
	return idPrefix + base64.RawURLEncoding.EncodeToString([]byte(pageURL))
}

// DecodeID recovers the content page URL from a catalog item ID.
func DecodeID(id string) (string, error) {
	encoded, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return "", fmt.Errorf("addon: id %q lacks the %q prefix", id, idPrefix)
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("addon: malformed id %q: %w", id, err)
	}
	return string(raw), nil
}
