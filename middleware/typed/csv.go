package typed

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/platform-smith-labs/orgapi/core"
	"github.com/platform-smith-labs/orgapi/handler"
)

// ParseCSV extracts and validates a CSV file from multipart form data.
//
// This middleware parses a CSV file uploaded via multipart form data (field
// name: "file"), unmarshals it into BodyTypeT (which should be a slice type),
// and validates each row.
//
// Example:
//
//	type CSVRow struct {
//	    Name string `csv:"name" validate:"required"`
//	}
//	// BodyTypeT should be []CSVRow
func ParseCSV[ParamTypeT any, BodyTypeT any, ResponseBodyT any](next handler.Handler[ParamTypeT, BodyTypeT, ResponseBodyT]) handler.Handler[ParamTypeT, BodyTypeT, ResponseBodyT] {
	return func(ctx handler.HandlerContext[ParamTypeT, BodyTypeT], w http.ResponseWriter, r *http.Request) (ResponseBodyT, error) {
		var zeroResponse ResponseBodyT

		// Parse multipart form data (32MB max)
		err := r.ParseMultipartForm(32 << 20)
		if err != nil {
			return zeroResponse, core.NewAPIError(core.CodeValidation, "Failed to parse multipart form").WithCause(err)
		}

		// Get the uploaded file
		file, fileHeader, err := r.FormFile("file")
		if err != nil {
			return zeroResponse, core.NewAPIError(core.CodeValidation, "Missing or invalid 'file' field in form data")
		}
		defer file.Close()

		if !isCSVFile(fileHeader) {
			return zeroResponse, core.NewAPIError(core.CodeValidation, "File must be a CSV file (.csv)")
		}

		// Parse CSV file directly using gocsv
		var csvRows BodyTypeT
		err = gocsv.Unmarshal(file, &csvRows)
		if err != nil {
			return zeroResponse, core.NewAPIError(core.CodeValidation, "Failed to parse CSV file").WithCause(err)
		}

		// Use reflection to check length and validate rows
		csvValue := reflect.ValueOf(csvRows)
		if csvValue.Len() == 0 {
			return zeroResponse, core.NewAPIError(core.CodeValidation, "CSV file is empty or contains no valid data rows")
		}

		// Validate CSV rows using the global validator instance
		for i := 0; i < csvValue.Len(); i++ {
			row := csvValue.Index(i).Interface()
			if err := validate.Struct(row); err != nil {
				return zeroResponse, core.NewAPIError(core.CodeValidation,
					fmt.Sprintf("Row %d validation failed: %s", i+2, err.Error()))
			}
		}

		// Set parsed CSV data in context
		ctx.Body = handler.NewNullable(csvRows)

		return next(ctx, w, r)
	}
}

// isCSVFile checks if the uploaded file is a CSV file
func isCSVFile(fileHeader *multipart.FileHeader) bool {
	return strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv")
}
