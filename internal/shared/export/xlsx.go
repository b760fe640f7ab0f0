package export

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet mô tả một bảng: header ở row 1, data từ row 2
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// Build tạo workbook một sheet, header in đậm
func Build(s Sheet) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", s.Name); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, header := range s.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(s.Name, cell, header); err != nil {
			return nil, fmt.Errorf("set header %s: %w", header, err)
		}
	}

	if len(s.Headers) > 0 {
		headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err == nil {
			last, _ := excelize.CoordinatesToCellName(len(s.Headers), 1)
			_ = f.SetCellStyle(s.Name, "A1", last, headerStyle)
		}
	}

	for i, row := range s.Rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(s.Name, cell, value); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	return f, nil
}

// Write stream workbook về client dạng attachment
func Write(c *gin.Context, filename string, f *excelize.File) error {
	defer f.Close()

	c.Header("Content-Type", ContentTypeXLSX)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
