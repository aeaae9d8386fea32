package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// CSVField is the multipart field name the import endpoint reads.
const CSVField = "inputFile"

// CSVFile is a product sheet checked locally before upload.
type CSVFile struct {
	Name   string
	Header []string
	Rows   int
	Data   []byte
}

// ReadCSVFile loads path and checks it has a .csv extension and a header row.
func ReadCSVFile(path string) (*CSVFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ValidationError{Field: "file", Message: "select a CSV file"}
	}
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return nil, ValidationError{Field: "file", Message: "file must have a .csv extension"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ValidationError{Field: "file", Message: fmt.Sprintf("%s does not exist", path)}
		}
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return ParseCSV(filepath.Base(path), data)
}

// ParseCSV checks data is a CSV document with a non-empty header row.
func ParseCSV(name string, data []byte) (*CSVFile, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	if sniffSemicolon(data) {
		r.Comma = ';'
	}

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ValidationError{Field: "file", Message: "CSV file is empty"}
	}
	if err != nil {
		return nil, ValidationError{Field: "file", Message: fmt.Sprintf("CSV header unreadable: %v", err)}
	}
	blank := true
	for _, col := range header {
		if strings.TrimSpace(col) != "" {
			blank = false
			break
		}
	}
	if blank {
		return nil, ValidationError{Field: "file", Message: "CSV header row is empty"}
	}

	rows := 0
	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, ValidationError{Field: "file", Message: fmt.Sprintf("CSV row %d unreadable: %v", rows+2, err)}
		}
		rows++
	}
	return &CSVFile{Name: name, Header: header, Rows: rows, Data: data}, nil
}

func sniffSemicolon(data []byte) bool {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	return bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(","))
}

// ImportProductsCSV uploads a product sheet as multipart form data.
func (c *Client) ImportProductsCSV(file *CSVFile) (*ImportResult, error) {
	if file == nil {
		return nil, ValidationError{Field: "file", Message: "select a CSV file"}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(CSVField, file.Name)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	data, _, err := c.send(http.MethodPost, "/v1/api/produtos/csv", mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	c.logger.Info("csv uploaded", "file", file.Name, "rows", file.Rows, "bytes", len(file.Data))

	result := &ImportResult{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return result, nil
	}
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, result); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return result, nil
	}
	result.Message = string(trimmed)
	return result, nil
}
