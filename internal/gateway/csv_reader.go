package gateway

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"provider-reconciliation/internal/domain"
	"provider-reconciliation/internal/parser"
)

// CSVTransactionRepository implements the TransactionRepository interface for CSV files.
type CSVTransactionRepository struct {
	parser   *parser.Parser
	encoding encoding.Encoding
}

// NewCSVTransactionRepository creates a new repository instance. charset names
// the encoding of the input files; an empty name means UTF-8.
func NewCSVTransactionRepository(p *parser.Parser, charset string) (*CSVTransactionRepository, error) {
	enc, err := lookupEncoding(charset)
	if err != nil {
		return nil, err
	}
	return &CSVTransactionRepository{parser: p, encoding: enc}, nil
}

// GetInternalTransactions reads and parses the internal system export.
func (r *CSVTransactionRepository) GetInternalTransactions(ctx context.Context, path string) ([]domain.Record, error) {
	text, err := r.readText(ctx, path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read internal export")
	}
	return r.parser.Parse(text), nil
}

// GetProviderTransactions reads and parses the provider statement.
func (r *CSVTransactionRepository) GetProviderTransactions(ctx context.Context, path string) ([]domain.Record, error) {
	text, err := r.readText(ctx, path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read provider statement")
	}
	return r.parser.Parse(text), nil
}

func (r *CSVTransactionRepository) readText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	file, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()

	// A byte order mark wins over the configured encoding.
	decoder := unicode.BOMOverride(r.encoding.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(file, decoder))
	if err != nil {
		return "", errors.Wrapf(err, "failed to decode %s", path)
	}
	return string(data), nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, errors.Errorf("unsupported encoding %q", name)
	}
}
