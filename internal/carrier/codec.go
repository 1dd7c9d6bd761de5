package carrier

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"shipquote/internal/shipment"
)

const (
	contentTypeJSON = "application/json"
	contentTypeXML  = "application/xml"
)

// Carrier1Request is the warehouse-shaped payload carrier1 accepts.
type Carrier1Request struct {
	ContactAddress    shipment.Address     `json:"contactAddress"`
	WarehouseAddress  shipment.Address     `json:"warehouseAddress"`
	PackageDimensions []shipment.Dimension `json:"packageDimensions" binding:"required,dive"`
}

// Carrier2Request is the consignment-shaped payload carrier2 accepts.
type Carrier2Request struct {
	Consignee shipment.Address     `json:"consignee"`
	Consignor shipment.Address     `json:"consignor"`
	Cartons   []shipment.Dimension `json:"cartons" binding:"required,dive"`
}

// Carrier3Request is the XML document carrier3 accepts.
type Carrier3Request struct {
	XMLName     xml.Name             `xml:"QuoteModel"`
	Source      shipment.Address     `xml:"Source"`
	Destination shipment.Address     `xml:"Destination"`
	Packages    []shipment.Dimension `xml:"Packages>DimensionModel" binding:"required,dive"`
}

// Carrier3Response is what carrier3 answers with; only the root's text matters
// to clients, so the element layout is free to change.
type Carrier3Response struct {
	XMLName xml.Name `xml:"QuoteResult"`
	Quote   float64  `xml:"Quote"`
}

// codec pairs one carrier's request encoder with its response decoder.
type codec interface {
	path() string
	contentType() string
	encode(s shipment.Shipment) ([]byte, error)
	decode(body []byte) (float64, error)
}

// codecFor is the closed registry of carrier variants.
func codecFor(id ID) (codec, bool) {
	switch id {
	case Carrier1:
		return carrier1Codec{}, true
	case Carrier2:
		return carrier2Codec{}, true
	case Carrier3:
		return carrier3Codec{}, true
	default:
		return nil, false
	}
}

type carrier1Codec struct{}

func (carrier1Codec) path() string        { return "getcarrier1quote" }
func (carrier1Codec) contentType() string { return contentTypeJSON }

// carrier1 wants the sender as both the contact and the warehouse.
func (carrier1Codec) encode(s shipment.Shipment) ([]byte, error) {
	return json.Marshal(Carrier1Request{
		ContactAddress:    s.Source,
		WarehouseAddress:  s.Source,
		PackageDimensions: nonNil(s.Packages),
	})
}

func (carrier1Codec) decode(body []byte) (float64, error) { return jsonNumber(body, "total") }

type carrier2Codec struct{}

func (carrier2Codec) path() string        { return "getcarrier2quote" }
func (carrier2Codec) contentType() string { return contentTypeJSON }

func (carrier2Codec) encode(s shipment.Shipment) ([]byte, error) {
	return json.Marshal(Carrier2Request{
		Consignee: s.Destination,
		Consignor: s.Source,
		Cartons:   nonNil(s.Packages),
	})
}

func (carrier2Codec) decode(body []byte) (float64, error) { return jsonNumber(body, "amount") }

type carrier3Codec struct{}

func (carrier3Codec) path() string        { return "getcarrier3quote" }
func (carrier3Codec) contentType() string { return contentTypeXML }

func (carrier3Codec) encode(s shipment.Shipment) ([]byte, error) {
	return xml.Marshal(Carrier3Request{
		Source:      s.Source,
		Destination: s.Destination,
		Packages:    nonNil(s.Packages),
	})
}

func (carrier3Codec) decode(body []byte) (float64, error) {
	text, err := xmlRootText(body)
	if err != nil {
		return 0, err
	}
	return parseAmount(text)
}

// jsonNumber extracts field from a JSON object. Numeric strings are accepted.
func jsonNumber(body []byte, field string) (float64, error) {
	if !gjson.ValidBytes(body) {
		return 0, errors.New("invalid JSON")
	}
	r := gjson.GetBytes(body, field)
	switch r.Type {
	case gjson.Number:
		return finite(r.Float(), r.Raw)
	case gjson.String:
		return parseAmount(r.Str)
	case gjson.Null:
		if !r.Exists() {
			return 0, fmt.Errorf("missing field %q", field)
		}
		return 0, fmt.Errorf("field %q is null", field)
	default:
		return 0, fmt.Errorf("field %q is not numeric: %s", field, r.Raw)
	}
}

// xmlRootText concatenates every character data node below the root element.
func xmlRootText(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	var sb strings.Builder
	depth := 0
	seenRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			seenRoot = true
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth > 0 {
				sb.Write(t)
			}
		}
	}
	if !seenRoot {
		return "", errors.New("missing root element")
	}
	return strings.TrimSpace(sb.String()), nil
}

func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty quote")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("quote %q is not numeric", s)
	}
	return finite(v, s)
}

// finite rejects NaN and infinities, which no carrier can mean as a price.
func finite(v float64, raw string) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("quote %q is not numeric", raw)
	}
	return v, nil
}

func nonNil(dims []shipment.Dimension) []shipment.Dimension {
	if dims == nil {
		return []shipment.Dimension{}
	}
	return dims
}
