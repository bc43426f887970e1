package realtime

// Collection — enumeración cerrada de las colecciones sincronizables.
// Un string arbitrario no compila contra Subscribe/Broadcast, así que no
// existen claves con typo que nunca disparan.
type Collection string

const (
	Students          Collection = "students"
	Courses           Collection = "courses"
	PickupLogs        Collection = "pickupLogs"
	AuthorizedPersons Collection = "authorizedPersons"
)

func Collections() []Collection {
	return []Collection{Students, Courses, PickupLogs, AuthorizedPersons}
}

// Key — clave bajo la que se persiste el snapshot en el store compartido.
func (c Collection) Key() string { return "sync_" + string(c) }
