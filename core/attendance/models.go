package attendance

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
)

// Per-student statuses.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
)

type (
	// StudentRecord is one student's mark inside an Entry.
	StudentRecord struct {
		StudentID    string `json:"student_id"`
		StudentName  string `json:"student_name"`
		Status       string `json:"status"`
		Remarks      string `json:"remarks"`
		CheckInTime  string `json:"check_in_time"`
		CheckOutTime string `json:"check_out_time"`
	}

	// RecordList is stored as a single JSONB document alongside its Entry.
	RecordList []StudentRecord

	// Entry is one class register: all marks for a (date, class, subject) key.
	//
	// Legacy single-student entries (produced by the old per-student check-in path)
	// carry no Records; their student fields live at the top level instead. Both
	// shapes are accepted everywhere, see Flatten.
	Entry struct {
		ID          string     `json:"id"`
		Date        string     `json:"date"` // calendar day, YYYY-MM-DD
		ClassName   string     `json:"class_name"`
		Subject     string     `json:"subject"`
		TeacherID   string     `json:"teacher_id"`
		TeacherName string     `json:"teacher_name"`
		Records     RecordList `json:"records"`

		// legacy flat shape
		StudentID   string `json:"student_id,omitempty"`
		StudentName string `json:"student_name,omitempty"`
		Status      string `json:"status,omitempty"`

		CreatedAt time.Time `json:"created_at"` // UTC
		UpdatedAt time.Time `json:"updated_at"` // UTC
	}

	// FlatRecord is the canonical per-student-per-day row used for presentation
	// and statistics, whichever shape the stored entry has.
	FlatRecord struct {
		EntryID      string `json:"entry_id"`
		Date         string `json:"date"`
		ClassName    string `json:"class_name"`
		Subject      string `json:"subject"`
		TeacherName  string `json:"teacher_name"`
		StudentID    string `json:"student_id"`
		StudentName  string `json:"student_name"`
		Status       string `json:"status"`
		Remarks      string `json:"remarks"`
		CheckInTime  string `json:"check_in_time"`
		CheckOutTime string `json:"check_out_time"`
	}

	// DailyStats tallies one calendar day across all classes.
	DailyStats struct {
		Date       string `json:"date"`
		Present    int    `json:"present"`
		Absent     int    `json:"absent"`
		Late       int    `json:"late"`
		Total      int    `json:"total"`
		Percentage int    `json:"percentage"` // round(present / total * 100), 0 when nothing tallied
	}
)

func (l RecordList) Value() (driver.Value, error) {
	if l == nil {
		l = RecordList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling record list")
	}
	return data, nil
}

func (l *RecordList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return errors.Errorf("scanning record list: unexpected type %T", src)
	}
	return errors.Wrap(json.Unmarshal(data, l), "unmarshaling record list")
}

// NewRecord is one student's mark in an upsert payload.
type NewRecord struct {
	StudentID    string `json:"student_id" validate:"required"`
	StudentName  string `json:"student_name"`
	Status       string `json:"status" validate:"omitempty,oneof=present absent late"`
	Remarks      string `json:"remarks"`
	CheckInTime  string `json:"check_in_time"`
	CheckOutTime string `json:"check_out_time"`
}

// NewEntry contains information needed to upsert an Entry by its composite key.
type NewEntry struct {
	Date        string      `json:"date" validate:"required,dateonly"`
	ClassName   string      `json:"class_name" validate:"required"`
	Subject     string      `json:"subject"`
	TeacherID   string      `json:"teacher_id"`
	TeacherName string      `json:"teacher_name"`
	Records     []NewRecord `json:"records" validate:"omitempty,dive"`
}

func (ne *NewEntry) Validate(validate *validator.Validate) error {
	ne.Date = core.CleanString(ne.Date)
	ne.ClassName = core.CleanString(ne.ClassName)
	ne.Subject = core.CleanString(ne.Subject)

	if err := validate.Struct(ne); err != nil {
		return err
	}
	// an empty register is fine; a missing one is not
	if ne.Records == nil {
		return core.NewFieldError("records", "this field is required")
	}
	return nil
}

// records applies per-record defaults and converts to the stored shape.
func (ne *NewEntry) records() RecordList {
	recs := make(RecordList, 0, len(ne.Records))
	for _, nr := range ne.Records {
		status := nr.Status
		if status == "" {
			status = StatusAbsent
		}
		recs = append(recs, StudentRecord{
			StudentID:    nr.StudentID,
			StudentName:  nr.StudentName,
			Status:       status,
			Remarks:      nr.Remarks,
			CheckInTime:  nr.CheckInTime,
			CheckOutTime: nr.CheckOutTime,
		})
	}
	return recs
}

// UpdateEntry defines what may be changed on a stored Entry. The id is not
// part of the payload and can never change. Nil/empty fields keep their
// stored values.
type UpdateEntry struct {
	Date        string      `json:"date" validate:"omitempty,dateonly"`
	ClassName   string      `json:"class_name"`
	Subject     string      `json:"subject"`
	TeacherID   string      `json:"teacher_id"`
	TeacherName string      `json:"teacher_name"`
	Records     []NewRecord `json:"records" validate:"omitempty,dive"`
}

func (ue *UpdateEntry) Validate(validate *validator.Validate) error {
	ue.Date = core.CleanString(ue.Date)
	ue.ClassName = core.CleanString(ue.ClassName)
	ue.Subject = core.CleanString(ue.Subject)
	return validate.Struct(ue)
}

type QueryFilter struct {
	Date      string `query:"date"`
	ClassName string `query:"class"`     // substring match
	StudentID string `query:"studentId"` // matched against nested records or the legacy flat field
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Date == "" && qf.ClassName == "" && qf.StudentID == ""
}

func (qf *QueryFilter) Clean() {
	qf.Date = core.CleanString(qf.Date)
	qf.ClassName = core.CleanString(qf.ClassName)
	qf.StudentID = core.CleanString(qf.StudentID)
}

// Matches reports whether the entry satisfies every set filter field.
func (qf *QueryFilter) Matches(ent Entry) bool {
	if qf.Date != "" && ent.Date != qf.Date {
		return false
	}
	if qf.ClassName != "" && !strings.Contains(strings.ToLower(ent.ClassName), strings.ToLower(qf.ClassName)) {
		return false
	}
	if qf.StudentID != "" {
		if ent.StudentID == qf.StudentID {
			return true
		}
		for _, rec := range ent.Records {
			if rec.StudentID == qf.StudentID {
				return true
			}
		}
		return false
	}
	return true
}
