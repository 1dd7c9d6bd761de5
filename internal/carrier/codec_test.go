package carrier

import (
	"encoding/json"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"shipquote/internal/shipment"
)

func TestCodecFor_CoversRegistry(t *testing.T) {
	t.Parallel()

	for _, id := range All() {
		cd, ok := codecFor(id)
		require.Truef(t, ok, "no codec for %s", id)
		require.NotEmpty(t, cd.path())
	}
	_, ok := codecFor("carrier9")
	require.False(t, ok)
}

func TestCarrier1Codec_EncodeShape(t *testing.T) {
	t.Parallel()

	b, err := carrier1Codec{}.encode(Fixture(Carrier1))
	require.NoError(t, err)

	require.Equal(t, "Test Address", gjson.GetBytes(b, "contactAddress.address").String())
	require.Equal(t, "6a7f88", gjson.GetBytes(b, "warehouseAddress.zipCode").String())
	require.EqualValues(t, 2, gjson.GetBytes(b, "packageDimensions.#").Int())
	require.EqualValues(t, 5, gjson.GetBytes(b, "packageDimensions.0.noOfCartons").Int())
	require.EqualValues(t, 20, gjson.GetBytes(b, "packageDimensions.0.height").Float())
}

func TestCarrier2Codec_EncodeShape(t *testing.T) {
	t.Parallel()

	s := Fixture(Carrier2)
	s.Destination.City = "Elsewhere"
	b, err := carrier2Codec{}.encode(s)
	require.NoError(t, err)

	var got Carrier2Request
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, "Elsewhere", got.Consignee.City)
	require.Equal(t, "Test City", got.Consignor.City)
	require.Equal(t, s.Packages, got.Cartons)
}

func TestCarrier3Codec_EncodeShape(t *testing.T) {
	t.Parallel()

	b, err := carrier3Codec{}.encode(Fixture(Carrier3))
	require.NoError(t, err)
	require.Contains(t, string(b), "<QuoteModel>")
	require.Contains(t, string(b), "<Packages><DimensionModel><Height>40</Height><Width>40</Width><NoOfCartons>5</NoOfCartons></DimensionModel>")

	var got Carrier3Request
	require.NoError(t, xml.Unmarshal(b, &got))
	require.Len(t, got.Packages, 3)
	require.Equal(t, "86988h", got.Source.ZipCode)
}

func TestEncode_NilPackagesBecomeEmptyList(t *testing.T) {
	t.Parallel()

	b, err := carrier1Codec{}.encode(shipment.Shipment{})
	require.NoError(t, err)
	require.Equal(t, "[]", gjson.GetBytes(b, "packageDimensions").Raw)
}

func TestJSONDecode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		field   string
		body    string
		want    float64
		wantErr bool
	}{
		{name: "total number", field: "total", body: `{"total": 3000}`, want: 3000},
		{name: "amount fraction", field: "amount", body: `{"amount": 12.5}`, want: 12.5},
		{name: "numeric string", field: "total", body: `{"total": "42"}`, want: 42},
		{name: "missing", field: "total", body: `{"amount": 1}`, wantErr: true},
		{name: "null", field: "total", body: `{"total": null}`, wantErr: true},
		{name: "non numeric string", field: "total", body: `{"total": "cheap"}`, wantErr: true},
		{name: "object", field: "amount", body: `{"amount": {"v": 1}}`, wantErr: true},
		{name: "nan string", field: "amount", body: `{"amount": "NaN"}`, wantErr: true},
		{name: "inf string", field: "total", body: `{"total": "Inf"}`, wantErr: true},
		{name: "signed inf string", field: "total", body: `{"total": "-Infinity"}`, wantErr: true},
		{name: "overflowing number", field: "total", body: `{"total": 1e999}`, wantErr: true},
		{name: "invalid json", field: "total", body: `{"total": `, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := jsonNumber([]byte(tc.body), tc.field)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestCarrier3Decode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		body    string
		want    float64
		wantErr bool
	}{
		{name: "nested quote", body: `<QuoteResult><Quote>6000</Quote></QuoteResult>`, want: 6000},
		{name: "pretty printed", body: "<QuoteResult>\n  <Quote>13500</Quote>\n</QuoteResult>", want: 13500},
		{name: "bare root", body: `<decimal>7.25</decimal>`, want: 7.25},
		{name: "with prolog", body: `<?xml version="1.0"?><Result>1</Result>`, want: 1},
		{name: "empty root", body: `<QuoteResult/>`, wantErr: true},
		{name: "not numeric", body: `<QuoteResult>n/a</QuoteResult>`, wantErr: true},
		{name: "nan", body: `<QuoteResult><Quote>NaN</Quote></QuoteResult>`, wantErr: true},
		{name: "inf", body: `<QuoteResult>+Inf</QuoteResult>`, wantErr: true},
		{name: "no root", body: ``, wantErr: true},
		{name: "malformed", body: `<QuoteResult><Quote>1</QuoteResult>`, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := carrier3Codec{}.decode([]byte(tc.body))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestCarrier3Response_RoundTripsThroughDecoder(t *testing.T) {
	t.Parallel()

	b, err := xml.Marshal(Carrier3Response{Quote: 6000})
	require.NoError(t, err)
	got, err := carrier3Codec{}.decode(b)
	require.NoError(t, err)
	require.Equal(t, float64(6000), got)
}

func TestParseList(t *testing.T) {
	t.Parallel()

	ids, err := ParseList([]string{" Carrier1", "", "carrier3 "})
	require.NoError(t, err)
	require.Equal(t, []ID{Carrier1, Carrier3}, ids)

	_, err = ParseList([]string{"carrier1", "fedex"})
	require.ErrorIs(t, err, ErrUnknownCarrier)
}

func TestFixtures(t *testing.T) {
	t.Parallel()

	require.Len(t, Fixture(Carrier1).Packages, 2)
	require.Len(t, Fixture(Carrier2).Packages, 2)
	require.Len(t, Fixture(Carrier3).Packages, 3)
	require.Empty(t, Fixture("nope").Packages)
}
