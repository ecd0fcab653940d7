package audience

import (
	"bytes"
	"testing"

	"pinpoint-provisioner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bothChannels = []domain.ChannelType{domain.ChannelEmail, domain.ChannelSMS}

func TestWriteCSVSingleChannel(t *testing.T) {
	ds := New([]string{"ChannelType", "Address", "Attributes.Name"})
	ds.SetEmailValues([][]string{
		{"EMAIL", "a@example.com", "Ada"},
	}, nil)

	var buf bytes.Buffer
	require.NoError(t, ds.WriteCSV(&buf, []domain.ChannelType{domain.ChannelEmail}))

	assert.Equal(t,
		"ChannelType,Address,Attributes.Name\r\n"+
			"EMAIL,a@example.com,Ada\r\n",
		buf.String())
}

func TestWriteCSVBothChannelsSingleHeader(t *testing.T) {
	ds := New([]string{"ChannelType", "Address"})
	ds.SetEmailValues([][]string{{"EMAIL", "a@example.com"}}, nil)
	ds.SetSMSValues([][]string{{"SMS", "+15550100"}}, nil)

	var buf bytes.Buffer
	require.NoError(t, ds.WriteCSV(&buf, bothChannels))

	assert.Equal(t,
		"ChannelType,Address\r\n"+
			"EMAIL,a@example.com\r\n"+
			"SMS,+15550100\r\n",
		buf.String())
}

func TestWriteCSVActiveChannelWithoutRows(t *testing.T) {
	ds := New([]string{"ChannelType", "Address"})
	ds.SetEmailValues([][]string{{"EMAIL", "a@example.com"}}, nil)

	var buf bytes.Buffer
	err := ds.WriteCSV(&buf, bothChannels)

	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestWriteCSVRequiresFields(t *testing.T) {
	ds := New(nil)
	ds.SetEmailValues([][]string{{"EMAIL", "a@example.com"}}, nil)

	var buf bytes.Buffer
	err := ds.WriteCSV(&buf, []domain.ChannelType{domain.ChannelEmail})

	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestSetRecordsOrdersByFields(t *testing.T) {
	ds := New([]string{"ChannelType", "Address", "Attributes.Name"})
	require.NoError(t, ds.SetEmailRecords([]map[string]string{
		{"Attributes.Name": "Ada", "Address": "a@example.com", "ChannelType": "EMAIL"},
	}, nil))

	var buf bytes.Buffer
	require.NoError(t, ds.WriteCSV(&buf, []domain.ChannelType{domain.ChannelEmail}))
	assert.Contains(t, buf.String(), "EMAIL,a@example.com,Ada\r\n")
}

func TestSetRecordsMissingField(t *testing.T) {
	ds := New([]string{"ChannelType", "Address"})
	err := ds.SetEmailRecords([]map[string]string{
		{"ChannelType": "EMAIL"},
	}, nil)

	var missing *domain.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Address", missing.Field)
}

func TestSetRecordsWithoutFieldsFails(t *testing.T) {
	ds := New(nil)
	err := ds.SetSMSRecords([]map[string]string{{"Address": "+15550100"}}, nil)

	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestFieldListCachedFromFirstSupply(t *testing.T) {
	ds := New(nil)
	fields := []string{"ChannelType", "Address"}
	require.NoError(t, ds.SetEmailRecords([]map[string]string{
		{"ChannelType": "EMAIL", "Address": "a@example.com"},
	}, fields))

	// The second row set reuses the cached fields.
	require.NoError(t, ds.SetSMSRecords([]map[string]string{
		{"ChannelType": "SMS", "Address": "+15550100"},
	}, nil))

	assert.Equal(t, fields, ds.Fields())
}

func TestSetValuesCanOverrideFields(t *testing.T) {
	ds := New([]string{"ChannelType", "Address"})
	ds.SetSMSValues([][]string{{"SMS", "+15550100", "Ada"}},
		[]string{"ChannelType", "Address", "Attributes.Name"})

	assert.Equal(t, []string{"ChannelType", "Address", "Attributes.Name"}, ds.Fields())
}
