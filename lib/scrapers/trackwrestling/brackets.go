package trackwrestling

import (
	"errors"
	"fmt"
	"strings"
)

var templateSchema = Schema{
	Payload:   "templates",
	Separator: "~",
	Fields: []Field{
		{Name: "bracket_id", Kind: FieldInt},
		{Name: "template_id", Kind: FieldInt},
		{Name: "template_name", Kind: FieldString},
		{Name: "bracket_width", Kind: FieldToken},
		{Name: "bracket_height", Kind: FieldToken},
		{Name: "bracket_font", Kind: FieldToken},
		{Name: "pages", Kind: FieldString},
	},
}

var pageSchema = Schema{
	Payload:   "template pages",
	Separator: ",",
	Fields: []Field{
		{Name: "page_id", Kind: FieldInt},
		{Name: "page_name", Kind: FieldString},
	},
}

var weightSchema = Schema{
	Payload:   "weights",
	Separator: "~",
	Fields: []Field{
		{Name: "weight_id", Kind: FieldToken},
		{Name: "weight_name", Kind: FieldString},
		{Name: "bracket_id", Kind: FieldInt},
	},
}

var bracketTypeSchema = Schema{
	Payload:   "bracket types",
	Separator: ",",
	Fields: []Field{
		{Name: "bracket_id", Kind: FieldInt},
	},
}

// ParseBracketPayload decodes the templates, weights and bracket types
// embedded in the bracket viewer page.
//
// A page without the bracket script yields *PayloadNotFoundError, a payload
// that breaks its group width yields *MalformedRecordError naming the payload.
func ParseBracketPayload(html string) (BracketData, error) {
	doc, err := newDocument(html)
	if err != nil {
		return BracketData{}, err
	}
	payloads, err := LocateBracketPayloads(doc)
	if err != nil {
		return BracketData{}, err
	}
	return DecodeBracketPayloads(payloads)
}

// DecodeBracketPayloads decodes already located payload strings.
func DecodeBracketPayloads(p BracketPayloads) (BracketData, error) {
	templates, err := DecodeTemplates(p.Templates)
	if err != nil {
		return BracketData{}, err
	}
	weights, err := DecodeWeights(p.Weights)
	if err != nil {
		return BracketData{}, err
	}
	bracketTypes, err := DecodeBracketTypes(p.BracketTypes)
	if err != nil {
		return BracketData{}, err
	}
	return BracketData{
		Templates:    templates,
		Weights:      weights,
		BracketTypes: bracketTypes,
	}, nil
}

func DecodeTemplates(raw string) ([]Template, error) {
	records, err := DecodeDelimited(raw, templateSchema)
	if err != nil {
		return nil, err
	}

	templates := make([]Template, len(records))
	for i, r := range records {
		pages, err := DecodePages(r.String("pages"))
		var malformed *MalformedRecordError
		if errors.As(err, &malformed) {
			return nil, &MalformedRecordError{
				Payload: templateSchema.Payload,
				Record:  r.Index,
				Field:   "pages",
				Reason:  fmt.Sprintf("page pair %d: %s", malformed.Record, malformed.Reason),
			}
		}
		if err != nil {
			return nil, err
		}
		templates[i] = Template{
			Index:     r.Index,
			BracketID: r.Int("bracket_id"),
			ID:        r.Int("template_id"),
			Name:      r.String("template_name"),
			Width:     r.Token("bracket_width"),
			Height:    r.Token("bracket_height"),
			FontSize:  r.Token("bracket_font"),
			Pages:     pages,
		}
	}
	return templates, nil
}

// DecodePages decodes a template's `,` separated (page id, page name) pairs.
func DecodePages(raw string) ([]BracketPage, error) {
	records, err := DecodeDelimited(raw, pageSchema)
	if err != nil {
		return nil, err
	}
	pages := make([]BracketPage, len(records))
	for i, r := range records {
		pages[i] = BracketPage{
			Index:    r.Index,
			ID:       r.Int("page_id"),
			Name:     r.String("page_name"),
			ShowPage: visiblePageIds[strings.TrimSpace(r.String("page_id"))],
		}
	}
	return pages, nil
}

func DecodeWeights(raw string) ([]Weight, error) {
	records, err := DecodeDelimited(raw, weightSchema)
	if err != nil {
		return nil, err
	}
	weights := make([]Weight, len(records))
	for i, r := range records {
		weights[i] = Weight{
			Index:     r.Index,
			ID:        r.Token("weight_id"),
			Name:      r.String("weight_name"),
			BracketID: r.Int("bracket_id"),
		}
	}
	return weights, nil
}

func DecodeBracketTypes(raw string) ([]BracketType, error) {
	records, err := DecodeDelimited(raw, bracketTypeSchema)
	if err != nil {
		return nil, err
	}
	types := make([]BracketType, len(records))
	for i, r := range records {
		types[i] = BracketType{BracketID: r.Int("bracket_id")}
	}
	return types, nil
}
