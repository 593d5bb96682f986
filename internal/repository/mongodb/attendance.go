package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/mongodb"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type attendanceRepository struct {
	records *mongo.Collection
}

// NewAttendanceRepository ensures the attendance indexes exist. The unique
// employee/date index is what turns a racing second clock-in into
// ErrAlreadyClockedIn.
func NewAttendanceRepository(ctx context.Context, db *mongodb.MongoDB) (attendance.AttendanceRepository, error) {
	records := db.Collection("attendance")

	if _, err := records.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "date", Value: 1}}},
	}); err != nil {
		return nil, fmt.Errorf("create attendance indexes: %w", err)
	}

	return &attendanceRepository{records: records}, nil
}

func (r *attendanceRepository) findOne(ctx context.Context, filter bson.M) (attendance.Record, error) {
	var record attendance.Record
	err := r.records.FindOne(ctx, filter).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	if err != nil {
		return attendance.Record{}, fmt.Errorf("find attendance: %w", err)
	}
	return record, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	if record.Version == 0 {
		record.Version = 1
	}
	if record.Breaks == nil {
		record.Breaks = []attendance.Break{}
	}

	if _, err := r.records.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return attendance.Record{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Record{}, fmt.Errorf("insert attendance: %w", err)
	}
	return record, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, companyID, id string) (attendance.Record, error) {
	return r.findOne(ctx, bson.M{"_id": id, "company_id": companyID})
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID, date string) (attendance.Record, error) {
	return r.findOne(ctx, bson.M{"employee_id": employeeID, "date": date})
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	expected := record.Version
	record.Version++

	res, err := r.records.ReplaceOne(ctx, bson.M{"_id": record.ID, "version": expected}, record)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("replace attendance: %w", err)
	}
	if res.MatchedCount > 0 {
		return record, nil
	}

	count, err := r.records.CountDocuments(ctx, bson.M{"_id": record.ID})
	if err != nil {
		return attendance.Record{}, fmt.Errorf("count attendance: %w", err)
	}
	if count == 0 {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return attendance.Record{}, attendance.ErrConcurrentUpdate
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Record, error) {
	query := bson.M{"company_id": filter.CompanyID}
	if filter.EmployeeID != nil {
		query["employee_id"] = *filter.EmployeeID
	}
	dateRange := bson.M{}
	if filter.DateFrom != nil {
		dateRange["$gte"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		dateRange["$lte"] = *filter.DateTo
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "employee_id", Value: 1}})
	cursor, err := r.records.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}

	results := []attendance.Record{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode attendance: %w", err)
	}
	return results, nil
}
