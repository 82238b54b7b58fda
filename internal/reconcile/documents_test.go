package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdvisorDocument(t *testing.T) {
	doc := mustAdvisor(t, advisorFixture)

	assert.Equal(t, []string{"ap-south-1", "eu-west-1", "us-east-1"}, doc.RegionNames())
	assert.Len(t, doc.InstanceTypes, 3)
}

func TestParseAdvisorDocument_WithoutInstanceTypes(t *testing.T) {
	doc, err := ParseAdvisorDocument([]byte(`{"spot_advisor": {"us-east-1": {}}}`))

	require.NoError(t, err)
	assert.Empty(t, doc.InstanceTypes)
}

func TestParseAdvisorDocument_NonObjectInstanceTypes(t *testing.T) {
	tests := []struct {
		name  string
		types string
	}{
		{"null", `null`},
		{"list", `[]`},
		{"string", `"x"`},
		{"number", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseAdvisorDocument([]byte(`{"spot_advisor": {"us-east-1": {}}, "instance_types": ` + tt.types + `}`))

			require.NoError(t, err)
			assert.NotNil(t, doc.InstanceTypes)
			assert.Empty(t, doc.InstanceTypes)
			assert.Equal(t, []string{"us-east-1"}, doc.RegionNames())
		})
	}
}

func TestParseAdvisorDocument_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
		path string
	}{
		{"not json", `callback(`, ""},
		{"array", `[1, 2]`, ""},
		{"null", `null`, ""},
		{"missing spot_advisor", `{"instance_types": {}}`, "spot_advisor"},
		{"spot_advisor is a list", `{"spot_advisor": []}`, "spot_advisor"},
		{"spot_advisor is null", `{"spot_advisor": null}`, "spot_advisor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseAdvisorDocument([]byte(tt.data))

			assert.Nil(t, doc)
			require.Error(t, err)
			assert.True(t, IsErrorCategory(err, ErrMalformedDocument))

			var rerr *Error
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, DocumentAdvisor, rerr.Document)
			assert.Equal(t, tt.path, rerr.Path)
		})
	}
}

func TestParsePriceDocument(t *testing.T) {
	doc := mustPrice(t, priceFixture)

	assert.Len(t, doc.Regions, 2)
	assert.Equal(t, []string{"eu-west-1", "us-east-1"}, doc.RegionNames())
}

func TestParsePriceDocument_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
		path string
	}{
		{"not json", `{"config":`, ""},
		{"missing config", `{"vers": 0.01}`, "config"},
		{"config is a number", `{"config": 1}`, "config"},
		{"missing regions", `{"config": {}}`, "config.regions"},
		{"regions is an object", `{"config": {"regions": {}}}`, "config.regions"},
		{"regions is null", `{"config": {"regions": null}}`, "config.regions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParsePriceDocument([]byte(tt.data))

			assert.Nil(t, doc)
			require.Error(t, err)
			assert.True(t, IsErrorCategory(err, ErrMalformedDocument))

			var rerr *Error
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, DocumentPrice, rerr.Document)
			assert.Equal(t, tt.path, rerr.Path)
		})
	}
}

func TestPriceDocument_RegionNamesSkipsBadEntries(t *testing.T) {
	doc := mustPrice(t, `{"config": {"regions": [{"region": "b"}, 7, {"instanceTypes": []}, {"region": "a"}]}}`)

	assert.Equal(t, []string{"a", "b"}, doc.RegionNames())
}

func TestDecodeUint(t *testing.T) {
	tests := []struct {
		raw    string
		want   uint64
		wantOK bool
	}{
		{`2`, 2, true},
		{`0`, 0, true},
		{`2.0`, 0, false},
		{`2.5`, 0, false},
		{`-1`, 0, false},
		{`"2"`, 0, false},
		{`null`, 0, false},
		{`true`, 0, false},
		{``, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := decodeUint([]byte(tt.raw))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeFloat(t *testing.T) {
	f, ok := decodeFloat([]byte(`15.25`))
	assert.True(t, ok)
	assert.Equal(t, 15.25, f)

	f, ok = decodeFloat([]byte(`8`))
	assert.True(t, ok)
	assert.Equal(t, 8.0, f)

	_, ok = decodeFloat([]byte(`"8"`))
	assert.False(t, ok)
}
