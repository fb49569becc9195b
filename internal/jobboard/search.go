package jobboard

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
)

const searchPath = "/v1/jobs/search"

// SearchParams describes one bounded search request against the board API.
type SearchParams struct {
	// boardparam is a custom tag for reflect. Please see buildParams.
	Location string   `boardparam:"location"`
	Limit    int      `boardparam:"limit"`
	Offset   int      `boardparam:"offset"`
	Distance int      `boardparam:"distance"`
	Sites    []string `boardparam:"site"`
	Debug    bool     `boardparam:"debug"`
}

// Search requests one batch of raw postings. Pagination across batches is the
// caller's concern; this issues exactly one API call.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]map[string]any, error) {
	if params.Location == "" {
		return nil, fmt.Errorf("location is required")
	}

	if c.Debug {
		params.Debug = true
	}

	q := buildParams(&params)
	apiURL := fmt.Sprintf("%s%s", c.APIURL, searchPath)

	resp, err := c.getItems(ctx, apiURL, q)
	if err != nil {
		return nil, err
	}

	return resp.Jobs, nil
}

func buildParams(params *SearchParams) url.Values {
	q := url.Values{}
	fields := reflect.VisibleFields(reflect.TypeOf(*params))
	for _, field := range fields {
		key := field.Tag.Get("boardparam")
		if key == "" {
			continue
		}
		value := reflect.ValueOf(params).Elem().FieldByIndex(field.Index)
		switch field.Type.Kind() {
		case reflect.Slice:
			if s, ok := value.Interface().([]string); ok {
				for _, v := range s {
					q.Add(key, v)
				}
			}
		case reflect.Bool:
			if value.Bool() {
				q.Set(key, "true")
			}
		case reflect.Int:
			if v := value.Int(); v != 0 {
				q.Set(key, strconv.FormatInt(v, 10))
			}
		default:
			if v := fmt.Sprintf("%v", value.Interface()); v != "" {
				q.Set(key, v)
			}
		}
	}

	return q
}
