package models

import "time"

type Role string

const (
	Admin     Role = "admin"
	Teacher   Role = "teacher"
	Inspector Role = "inspector"
	Parent    Role = "Parent"
)

func (r Role) IsStaff() bool {
	return r == Admin || r == Teacher || r == Inspector
}

type StudentStatus string

const (
	Presente StudentStatus = "Presente"
	Retirado StudentStatus = "Retirado"
)

type Course struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Student struct {
	ID          string        `json:"id"`
	FullName    string        `json:"full_name"`
	RutPassport string        `json:"rut_passport"`
	CourseID    string        `json:"course_id"`
	Status      StudentStatus `json:"status"`
}

type StudentWithCourse struct {
	Student
	CourseName string `json:"course_name"`
}

type AuthorizedPerson struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Relationship string `json:"relationship"`
	StudentID    string `json:"student_id"`
}

type PickupLog struct {
	ID                 int64     `json:"id"`
	StudentID          string    `json:"student_id"`
	AuthorizedPersonID string    `json:"authorized_person_id"`
	PickupTimestamp    time.Time `json:"pickup_timestamp"`
	RecordedByUser     string    `json:"recorded_by_user"`
}

// PickupDetail — fila del log con los datos ya unidos para reportes.
// Las referencias son blandas: si borraron al alumno o a la persona,
// los campos quedan vacíos en vez de romper el reporte.
type PickupDetail struct {
	PickupLog
	StudentName  string `json:"student_name"`
	CourseName   string `json:"course_name"`
	PersonName   string `json:"person_name"`
	Relationship string `json:"relationship"`
}

type Schedule struct {
	ID        int64  `json:"id"`
	CourseID  string `json:"course_id"`
	DayOfWeek int    `json:"day_of_week"` // 1=lunes .. 5=viernes
	StartTime string `json:"start_time"`  // HH:mm
	EndTime   string `json:"end_time"`    // HH:mm
	Subject   string `json:"subject"`
}

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Role         Role       `json:"role"`
	Subject      *string    `json:"subject,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// Identity — lo que viaja en el token y en la sesión. Nunca la credencial.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	StudentID string `json:"student_id,omitempty"` // solo apoderados
}
