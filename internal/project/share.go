package project

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/piwi3910/drawerfit/internal/model"
)

// ShareParam is the query parameter carrying an encoded layout.
const ShareParam = "layout"

// EncodeShare returns the standard base64 encoding of the compact snapshot JSON.
func EncodeShare(state model.LayoutState) (string, error) {
	data, err := json.Marshal(state.Clone())
	if err != nil {
		return "", fmt.Errorf("failed to marshal layout: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// ShareURL builds a link that reopens state. Existing query parameters on
// base are kept; any previous layout parameter is replaced.
func ShareURL(base string, state model.LayoutState) (string, error) {
	param, err := EncodeShare(state)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid share base URL %q: %w", base, err)
	}
	q := u.Query()
	q.Set(ShareParam, param)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ShareParamFromURL extracts the encoded layout from a share link. Input
// that is not a URL with a layout parameter is returned as-is, so a bare
// parameter value can be passed too. Literal '+' characters are kept rather
// than decoded as spaces, since base64 uses them.
func ShareParamFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}
	for _, part := range strings.Split(u.RawQuery, "&") {
		key, value, _ := strings.Cut(part, "=")
		if key != ShareParam {
			continue
		}
		if unescaped, err := url.PathUnescape(value); err == nil {
			return unescaped
		}
		return value
	}
	return raw
}
