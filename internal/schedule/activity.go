package schedule

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/francisquitu91/retiro-escolar/internal/models"
)

// Activity — qué está haciendo el alumno en este momento según el horario
// semanal de su curso. Si ningún bloque contiene el instante, está en recreo.
type Activity struct {
	Subject   string `json:"subject"`
	IsInClass bool   `json:"is_in_class"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

const RecessSubject = "Recreo"

// Current busca el bloque del curso que contiene el instante dado (intervalo
// semiabierto: inicio inclusive, fin exclusivo). Los bloques se ordenan por
// hora de inicio antes de recorrer, así el resultado es determinista aunque
// existan solapes, que el modelo de datos no impide.
func Current(courseID string, schedules []models.Schedule, at time.Time) Activity {
	day := int(at.Weekday())
	if day == 0 {
		day = 7 // domingo; no hay bloques para 6-7, cae en recreo
	}
	now := at.Hour()*60 + at.Minute()

	today := make([]models.Schedule, 0, 8)
	for _, s := range schedules {
		if s.CourseID == courseID && s.DayOfWeek == day {
			today = append(today, s)
		}
	}
	sort.SliceStable(today, func(i, j int) bool {
		return today[i].StartTime < today[j].StartTime
	})

	for _, s := range today {
		start, ok1 := minuteOfDay(s.StartTime)
		end, ok2 := minuteOfDay(s.EndTime)
		if !ok1 || !ok2 {
			continue
		}
		if now >= start && now < end {
			return Activity{
				Subject:   s.Subject,
				IsInClass: true,
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
			}
		}
	}
	return Activity{Subject: RecessSubject, IsInClass: false}
}

func minuteOfDay(hhmm string) (int, bool) {
	h, m, ok := strings.Cut(hhmm, ":")
	if !ok {
		return 0, false
	}
	hh, err1 := strconv.Atoi(h)
	mm, err2 := strconv.Atoi(m)
	if err1 != nil || err2 != nil || hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, false
	}
	return hh*60 + mm, true
}
