package report

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go-fitstaff/internal/access"
	common_models "go-fitstaff/internal/common/models"
	"go-fitstaff/internal/features/audit"
	"go-fitstaff/internal/features/record"
	"go-fitstaff/internal/metrics"
	"go-fitstaff/pkg/utils"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	exportLimit  = 5000
	digestWindow = 7 * 24 * time.Hour

	unspecified = "unspecified"
)

type ReportService interface {
	ExportToExcel(ctx context.Context, subject *access.Subject, period string) ([]byte, string, error)
	RunDigest(ctx context.Context) (*Digest, error)
	ListDigests(ctx context.Context, limit int64) ([]Digest, error)
}

type ReportServiceImpl struct {
	Records      record.RecordService
	RecordRepo   record.RecordRepository
	DigestRepo   DigestRepository
	Names        audit.NameFinder
	AuditService audit.AuditService
	Metrics      *metrics.Metrics
	Logger       *zap.Logger

	now         func() time.Time
	exportLimit int64
}

// ErrExportTooLarge is returned instead of a truncated workbook
var ErrExportTooLarge = fmt.Errorf("more than %d reports match, narrow the export by period", exportLimit)

func NewReportService(
	records record.RecordService,
	recordRepo record.RecordRepository,
	digestRepo DigestRepository,
	names audit.NameFinder,
	auditService audit.AuditService,
	m *metrics.Metrics,
	logger *zap.Logger,
) ReportService {
	return &ReportServiceImpl{
		Records:      records,
		RecordRepo:   recordRepo,
		DigestRepo:   digestRepo,
		Names:        names,
		AuditService: auditService,
		Metrics:      m,
		Logger:       logger,
		now:          time.Now,
		exportLimit:  exportLimit,
	}
}

// ExportToExcel writes the reports visible to subject into a single sheet.
// An empty period exports every period.
func (s *ReportServiceImpl) ExportToExcel(ctx context.Context, subject *access.Subject, period string) ([]byte, string, error) {
	var filters []record.Filter
	if period != "" {
		if !IsPeriod(period) {
			return nil, "", fmt.Errorf("unknown period %q", period)
		}
		filters = append(filters, record.Filter{Field: "period", Operator: "eq", Value: period})
	}

	// One extra row tells a full export from a cut one
	reports, err := s.Records.ListVisible(ctx, subject, access.DataReports, filters, s.exportLimit+1)
	if err != nil {
		return nil, "", err
	}
	if int64(len(reports)) > s.exportLimit {
		return nil, "", ErrExportTooLarge
	}

	names := map[string]string{}
	if s.Names != nil && len(reports) > 0 {
		ids := make([]string, 0, len(reports))
		for _, r := range reports {
			ids = append(ids, r.OwnerID)
		}
		if found, err := s.Names.FindNames(ctx, ids); err == nil {
			names = found
		}
	}

	buf, err := writeWorkbook(reports, names)
	if err != nil {
		return nil, "", err
	}

	label := period
	if label == "" {
		label = "all"
	}
	filename := utils.Slugify(fmt.Sprintf("reports %s %s", label, s.now().Format("20060102"))) + ".xlsx"
	return buf, filename, nil
}

var fixedColumns = []string{"id", "period", "department", "owner", "created_at"}

func dataColumns(reports []record.Record) []string {
	var cols []string
	for _, r := range reports {
		for k := range r.Data {
			if k != "period" && !slices.Contains(cols, k) {
				cols = append(cols, k)
			}
		}
	}
	slices.Sort(cols)
	return cols
}

func writeWorkbook(reports []record.Record, names map[string]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Reports"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	extra := dataColumns(reports)
	columns := append(append([]string{}, fixedColumns...), extra...)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, r := range reports {
		owner := names[r.OwnerID]
		if owner == "" {
			owner = r.OwnerID
		}
		row := []interface{}{r.ID.Hex(), r.Data["period"], r.Department, owner, r.CreatedAt.Format("2006-01-02 15:04:05")}
		for _, col := range extra {
			row = append(row, cellValue(r.Data[col]))
		}

		start, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(sheetName, start, &row); err != nil {
			return nil, err
		}
	}

	for i := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func cellValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	case primitive.DateTime:
		return val.Time().Format("2006-01-02 15:04:05")
	case primitive.ObjectID:
		return val.Hex()
	case string, bool, int, int32, int64, float64:
		return val
	}
	return fmt.Sprintf("%v", v)
}

// RunDigest counts the reports filed in the last week by period and
// department and stores the result.
func (s *ReportServiceImpl) RunDigest(ctx context.Context) (*Digest, error) {
	to := s.now()
	from := to.Add(-digestWindow)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": from, "$lt": to}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"period": "$data.period", "department": "$department"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	rows, err := s.RecordRepo.Aggregate(ctx, access.DataReports, pipeline)
	if err != nil {
		s.Metrics.ObserveDigest(err)
		return nil, err
	}

	digest := foldDigest(rows)
	digest.From = from
	digest.To = to

	if err := s.DigestRepo.Create(ctx, digest); err != nil {
		s.Metrics.ObserveDigest(err)
		return nil, err
	}
	s.Metrics.ObserveDigest(nil)

	changes := map[string]common_models.Change{
		"total": {New: digest.Total},
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDigest, access.DataReports, digest.ID.Hex(), changes)

	s.Logger.Info("Report digest stored", zap.Int64("total", digest.Total), zap.Time("from", from))
	return digest, nil
}

func (s *ReportServiceImpl) ListDigests(ctx context.Context, limit int64) ([]Digest, error) {
	if limit < 1 || limit > 52 {
		limit = 12
	}
	return s.DigestRepo.List(ctx, limit)
}

// foldDigest turns {_id: {period, department}, count} rows into totals
func foldDigest(rows []bson.M) *Digest {
	d := &Digest{
		ByPeriod:     map[string]int64{},
		ByDepartment: map[string]map[string]int64{},
	}
	for _, row := range rows {
		period, department := groupKey(row["_id"])
		count := record.ParseInt64(row["count"], 0)

		d.Total += count
		d.ByPeriod[period] += count
		if d.ByDepartment[department] == nil {
			d.ByDepartment[department] = map[string]int64{}
		}
		d.ByDepartment[department][period] += count
	}
	return d
}

func groupKey(id interface{}) (period, department string) {
	var m map[string]interface{}
	switch v := id.(type) {
	case bson.M:
		m = v
	case map[string]interface{}:
		m = v
	case bson.D:
		m = v.Map()
	}

	period, _ = m["period"].(string)
	department, _ = m["department"].(string)
	if period == "" {
		period = unspecified
	}
	if department == "" {
		department = unspecified
	}
	return period, department
}
