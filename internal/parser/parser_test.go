package parser

import (
	"fmt"
	"strings"
	"testing"

	"provider-reconciliation/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []domain.Record
	}{
		{
			name: "recognised columns",
			text: "transaction_reference,amount,status,date,description\n" +
				"TX1,50.00,Success,2025-09-01,Airtime purchase\n" +
				"TX2,10,Pending,2025-09-02,Bill payment",
			expected: []domain.Record{
				{Reference: "TX1", Amount: 50, Status: "Success", Date: "2025-09-01", Description: "Airtime purchase", Columns: []string{"date", "description"}},
				{Reference: "TX2", Amount: 10, Status: "Pending", Date: "2025-09-02", Description: "Bill payment", Columns: []string{"date", "description"}},
			},
		},
		{
			name: "quoted header and values are unquoted and trimmed",
			text: "\"Reference\", \"Amount\" ,\"Status\"\n" +
				"\"TX1\" , \"99.5\",\"Completed\"",
			expected: []domain.Record{
				{Reference: "TX1", Amount: 99.5, Status: "Completed"},
			},
		},
		{
			name: "unrecognised columns kept under their header",
			text: "txn_id,Amount,Channel,Currency\n" +
				"TX1,20,mobile,KES",
			expected: []domain.Record{
				{
					Reference: "TX1",
					Amount:    20,
					Extra:     map[string]string{"Channel": "mobile", "Currency": "KES"},
					Columns:   []string{"Channel", "Currency"},
				},
			},
		},
		{
			name:     "quoted comma splits the row under the plain split",
			text:     "reference,amount\nTX1,\"$1,234.56\"",
			expected: []domain.Record{},
		},
		{
			name: "amount with symbol",
			text: "reference,amount\nTX1,KES 1234.56",
			expected: []domain.Record{
				{Reference: "TX1", Amount: 1234.56},
			},
		},
		{
			name: "non numeric amount defaults to zero",
			text: "reference,amount\nTX1,N/A",
			expected: []domain.Record{
				{Reference: "TX1", Amount: 0},
			},
		},
		{
			name: "row with wrong field count skipped",
			text: "reference,amount,status\n" +
				"TX1,10,Success\n" +
				"TX2,10\n" +
				"TX3,10,Success,extra\n" +
				"TX4,30,Failed",
			expected: []domain.Record{
				{Reference: "TX1", Amount: 10, Status: "Success"},
				{Reference: "TX4", Amount: 30, Status: "Failed"},
			},
		},
		{
			name:     "rows without reference column dropped",
			text:     "amount,status\n10,Success\n20,Failed",
			expected: []domain.Record{},
		},
		{
			name: "rows with empty reference dropped",
			text: "reference,amount\n,10\nTX2,20",
			expected: []domain.Record{
				{Reference: "TX2", Amount: 20},
			},
		},
		{
			name:     "header only",
			text:     "reference,amount,status\n",
			expected: []domain.Record{},
		},
		{
			name:     "empty input",
			text:     "",
			expected: []domain.Record{},
		},
		{
			name: "windows line endings",
			text: "reference,amount,status\r\nTX1,10,Success\r\n",
			expected: []domain.Record{
				{Reference: "TX1", Amount: 10, Status: "Success"},
			},
		},
		{
			name: "first matching rule wins per header",
			text: "paid_amount,status_date\nTX1,Success",
			expected: []domain.Record{
				{Reference: "TX1", Status: "Success"},
			},
		},
		{
			name: "later reference column overwrites earlier one",
			text: "reference,order_id,amount\nTX1,ORD9,5",
			expected: []domain.Record{
				{Reference: "ORD9", Amount: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParse_ColumnsFollowHeaderOrder(t *testing.T) {
	got := Parse("id,channel,date,amount,status,Channel,date,region\n" +
		"TX1,mobile,,0,Success,web,,north")

	want := []string{"channel", "date", "Channel", "region"}
	if assert.Len(t, got, 1) {
		assert.Equal(t, want, got[0].Columns)
	}
}

func TestParser_QuoteAware(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []domain.Record
	}{
		{
			name: "quoted commas stay in one field",
			text: "reference,amount,description\n" +
				"TX1,\"$1,234.56\",\"Payment, batch 4\"",
			expected: []domain.Record{
				{Reference: "TX1", Amount: 1234.56, Description: "Payment, batch 4", Columns: []string{"description"}},
			},
		},
		{
			name: "field count mismatch still skipped",
			text: "reference,amount\nTX1,1,2\nTX2,2",
			expected: []domain.Record{
				{Reference: "TX2", Amount: 2},
			},
		},
		{
			name:     "header only",
			text:     "reference,amount",
			expected: []domain.Record{},
		},
	}

	p := NewParser(Options{QuoteAware: true})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.Parse(tt.text))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"$1,234.56", 1234.56},
		{"1234.56", 1234.56},
		{"-42.10", -42.10},
		{"KES 100", 100},
		{".5", 0.5},
		{"5.", 5},
		{"N/A", 0},
		{"", 0},
		{"-", 0},
		{"-0", 0},
		{"12.3.4", 12.3},
		{"1-2", 1},
		{"1" + strings.Repeat("0", 400), 0},
	}

	for _, tt := range tests {
		name := tt.in
		if len(name) > 20 {
			name = name[:20] + "..."
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.in))
		})
	}
}

func BenchmarkParse(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("transaction_reference,amount,status,date,channel\n")
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&sb, "TX%d,%d.50,Success,2025-09-01,mobile\n", i, i)
	}
	text := sb.String()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Parse(text)
	}
}
