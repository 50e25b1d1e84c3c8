package labels

import (
	"bytes"
	"context"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Fetch downloads a newline-delimited label resource from a static URL
// and parses it into a Map.
//
// Arguments:
//   - ctx: Context used for cancellation of the HTTP request.
//   - url: Location of the UTF-8 text resource, one class name per line.
//   - offset: Index of the first class name, 0 or 1.
//
// Returns:
//   - *Map: The constructed map.
//   - error: An error if the request fails, returns a non-2xx status, or
//     the body does not parse as a label list.
func Fetch(ctx context.Context, url string, offset int) (*Map, error) {
	resp, err := resty.New().R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch label resource %s", url)
	}
	if !resp.IsSuccess() {
		return nil, errors.Errorf("failed to fetch label resource %s: status %d",
			url, resp.StatusCode())
	}
	return Parse(bytes.NewReader(resp.Body()), offset)
}
