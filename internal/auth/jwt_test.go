package auth

import (
	"testing"
	"time"

	"github.com/francisquitu91/retiro-escolar/internal/models"
)

const testSecret = "clave-de-prueba"

func TestTokenRoundTrip(t *testing.T) {
	id := models.Identity{
		ID:    "u-1",
		Email: "inspector@colegio.cl",
		Name:  "Carla Muñoz",
		Role:  models.Inspector,
	}
	token, err := SignToken(id, testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	got, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	if *got != id {
		t.Fatalf("esperaba %+v, llegó %+v", id, *got)
	}
}

func TestTokenRoundTripParent(t *testing.T) {
	id := models.Identity{
		ID:        "parent_s-1",
		Name:      "Apoderado de Valentina Rojas",
		Role:      models.Parent,
		StudentID: "s-1",
	}
	token, err := SignToken(id, testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	if got.StudentID != "s-1" || got.Role != models.Parent {
		t.Fatalf("identidad de apoderado mal reconstruida: %+v", got)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := SignToken(models.Identity{ID: "u-1"}, testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken(token, "otra-clave"); err == nil {
		t.Fatal("token firmado con otro secreto aceptado")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := SignToken(models.Identity{ID: "u-1"}, testSecret, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken(token, testSecret); err == nil {
		t.Fatal("token vencido aceptado")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("cambiar.ahora")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "cambiar.ahora" {
		t.Fatal("la clave quedó en claro")
	}
	if !CheckPassword(hash, "cambiar.ahora") {
		t.Fatal("clave correcta rechazada")
	}
	if CheckPassword(hash, "otra") {
		t.Fatal("clave incorrecta aceptada")
	}
}
