package schedule

import (
	"testing"
	"time"

	"github.com/francisquitu91/retiro-escolar/internal/models"
)

const courseID = "c-basica-1a"

func mondaySchedules() []models.Schedule {
	return []models.Schedule{
		{ID: 1, CourseID: courseID, DayOfWeek: 1, Subject: "Matemática", StartTime: "08:00", EndTime: "08:45"},
		{ID: 2, CourseID: courseID, DayOfWeek: 1, Subject: "Lenguaje", StartTime: "08:45", EndTime: "09:30"},
		{ID: 3, CourseID: "otro-curso", DayOfWeek: 1, Subject: "Historia", StartTime: "08:00", EndTime: "09:30"},
	}
}

// lunes 3 de marzo de 2025
func monday(hour, min int) time.Time {
	return time.Date(2025, time.March, 3, hour, min, 0, 0, time.UTC)
}

func TestCurrent(t *testing.T) {
	cases := []struct {
		name    string
		at      time.Time
		subject string
		inClass bool
	}{
		{"en medio del bloque", monday(8, 50), "Lenguaje", true},
		{"inicio inclusive", monday(8, 0), "Matemática", true},
		{"borde entre bloques", monday(8, 45), "Lenguaje", true},
		{"fuera de todo bloque", monday(12, 0), RecessSubject, false},
		{"antes del primer bloque", monday(7, 59), RecessSubject, false},
		{"domingo sin bloques", time.Date(2025, time.March, 2, 10, 0, 0, 0, time.UTC), RecessSubject, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Current(courseID, mondaySchedules(), tc.at)
			if got.Subject != tc.subject || got.IsInClass != tc.inClass {
				t.Fatalf("Current(%s) = %+v, esperaba %q in_class=%v", tc.at.Format("Mon 15:04"), got, tc.subject, tc.inClass)
			}
		})
	}
}

func TestCurrentIgnoresOtherCourses(t *testing.T) {
	got := Current("otro-curso", mondaySchedules(), monday(8, 30))
	if got.Subject != "Historia" || !got.IsInClass {
		t.Fatalf("esperaba Historia en clase, llegó %+v", got)
	}
}

func TestCurrentOverlapIsDeterministic(t *testing.T) {
	overlapping := []models.Schedule{
		{ID: 2, CourseID: courseID, DayOfWeek: 1, Subject: "Taller", StartTime: "08:30", EndTime: "09:15"},
		{ID: 1, CourseID: courseID, DayOfWeek: 1, Subject: "Matemática", StartTime: "08:00", EndTime: "09:00"},
	}
	// con solape gana el bloque que empieza antes, da igual el orden de entrada
	got := Current(courseID, overlapping, monday(8, 40))
	if got.Subject != "Matemática" {
		t.Fatalf("esperaba Matemática, llegó %+v", got)
	}
}

func TestCurrentSkipsMalformedTimes(t *testing.T) {
	broken := []models.Schedule{
		{ID: 1, CourseID: courseID, DayOfWeek: 1, Subject: "Fantasma", StartTime: "ocho", EndTime: "09:00"},
		{ID: 2, CourseID: courseID, DayOfWeek: 1, Subject: "Ciencias", StartTime: "08:00", EndTime: "09:00"},
	}
	got := Current(courseID, broken, monday(8, 30))
	if got.Subject != "Ciencias" {
		t.Fatalf("un bloque con hora ilegible no debe ganar: %+v", got)
	}
}
