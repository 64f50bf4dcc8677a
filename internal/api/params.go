package api

import (
	"fmt"
	"net/url"
)

// Params are query parameters for list calls. Nil values are omitted; all
// others are stringified.
type Params map[string]any

func (p Params) encode() string {
	if len(p) == 0 {
		return ""
	}
	values := url.Values{}
	for key, v := range p {
		if v == nil {
			continue
		}
		values.Set(key, fmt.Sprint(v))
	}
	return values.Encode()
}
