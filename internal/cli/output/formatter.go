package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

func Write(w io.Writer, format Format, v any) error {
	switch format {
	case FormatText:
		return writeText(w, v)
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
}

// writeText prints objects as aligned key/value pairs and lists as one block per
// item. Nested values stay JSON encoded.
func writeText(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	switch x := generic.(type) {
	case []any:
		for i, item := range x {
			if i > 0 {
				fmt.Fprintln(tw)
			}
			writeFields(tw, item)
		}
	default:
		writeFields(tw, x)
	}
	return tw.Flush()
}

func writeFields(w io.Writer, v any) {
	m, ok := v.(map[string]any)
	if !ok {
		fmt.Fprintln(w, scalar(v))
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%s\n", k, scalar(m[k]))
	}
}

func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		return x
	case map[string]any, []any:
		b, _ := json.Marshal(x)
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}
