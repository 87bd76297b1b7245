// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ArticleRow is one row of the hosted backend's articles table. The
// backend is loosely typed: columns may be null, counters may arrive as
// strings, and authors/tags may be a string instead of an array. The
// field types below absorb those variations so decoding a page of rows
// never fails on a single malformed column.
type ArticleRow struct {
	ID              string     `json:"id" yaml:"id"`
	Title           string     `json:"title" yaml:"title"`
	Abstract        string     `json:"abstract" yaml:"abstract"`
	Authors         StringList `json:"authors" yaml:"authors"`
	Tags            StringList `json:"tags" yaml:"tags"`
	Category        string     `json:"category" yaml:"category"`
	Source          string     `json:"source" yaml:"source"`
	Status          string     `json:"status,omitempty" yaml:"status,omitempty"`
	PublicationDate string     `json:"publication_date" yaml:"publication_date"`
	Volume          FlexString `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue           FlexString `json:"issue,omitempty" yaml:"issue,omitempty"`
	PageNumber      FlexString `json:"page_number,omitempty" yaml:"page_number,omitempty"`
	Downloads       FlexInt    `json:"downloads" yaml:"downloads"`
	Shares          FlexInt    `json:"shares" yaml:"shares"`
	Views           FlexInt    `json:"views" yaml:"views"`
	Citations       FlexInt    `json:"citations" yaml:"citations"`
	PDFURL          string     `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`
	ImageURL        string     `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Specialty       string     `json:"specialty,omitempty" yaml:"specialty,omitempty"`
	Institution     string     `json:"institution,omitempty" yaml:"institution,omitempty"`
	CreatedAt       string     `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt       string     `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// StringList decodes a JSON array of strings, a comma-separated string,
// or null. Non-string array elements and blank entries are dropped.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	switch data[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			*l = nil
			return nil
		}
		out := make([]string, 0, len(raw))
		for _, elem := range raw {
			var s string
			if json.Unmarshal(elem, &s) != nil {
				continue
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		*l = out
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*l = nil
			return nil
		}
		*l = splitList(s)
	default:
		*l = nil
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FlexString decodes a JSON string or number as a string; null and other
// shapes decode to "".
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = ""
	if len(data) == 0 {
		return nil
	}
	switch {
	case data[0] == '"':
		var s string
		if json.Unmarshal(data, &s) == nil {
			*f = FlexString(strings.TrimSpace(s))
		}
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		*f = FlexString(data)
	}
	return nil
}

// FlexInt decodes a JSON number or numeric string as a non-negative int.
// null, negative values, and anything unparseable decode to 0.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = 0
	if len(data) == 0 {
		return nil
	}
	s := string(data)
	if data[0] == '"' {
		if json.Unmarshal(data, &s) != nil {
			return nil
		}
		s = strings.TrimSpace(s)
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return nil
	}
	*f = FlexInt(int(n))
	return nil
}
