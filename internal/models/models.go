package models

import (
	"fmt"
	"time"
)

// Role is a user role as the API spells it on the wire.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleTechnicien Role = "TECHNICIEN"
	RoleDemandeur  Role = "DEMANDEUR"
)

// Service is a facility category a réclamation (or technician) belongs to.
type Service string

const (
	ServiceIT             Service = "IT"
	ServiceEquipement     Service = "EQUIPEMENT"
	ServiceInfrastructure Service = "INFRASTRUCTURE"
)

// Statut is the réclamation lifecycle status.
type Statut string

const (
	StatutOuvert     Statut = "OUVERT"
	StatutEnCours    Statut = "EN_COURS"
	StatutResolue    Statut = "RESOLUE"
	StatutNonResolue Statut = "NON_RESOLUE"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleTechnicien, RoleDemandeur:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func ParseService(s string) (Service, error) {
	switch Service(s) {
	case ServiceIT, ServiceEquipement, ServiceInfrastructure:
		return Service(s), nil
	}
	return "", fmt.Errorf("unknown service %q", s)
}

func ParseStatut(s string) (Statut, error) {
	switch Statut(s) {
	case StatutOuvert, StatutEnCours, StatutResolue, StatutNonResolue:
		return Statut(s), nil
	}
	return "", fmt.Errorf("unknown statut %q", s)
}

// Services and Statuts list every value in wire order.
func Services() []Service {
	return []Service{ServiceIT, ServiceEquipement, ServiceInfrastructure}
}

func Statuts() []Statut {
	return []Statut{StatutOuvert, StatutEnCours, StatutResolue, StatutNonResolue}
}

// User is an account. Service is set for technicians only.
type User struct {
	ID       int64    `json:"id,omitempty"`
	Username string   `json:"username"`
	Role     Role     `json:"role"`
	Service  *Service `json:"service"`
}

// Reclamation is a filed facility issue.
type Reclamation struct {
	ID                int64      `json:"id"`
	Titre             string     `json:"titre"`
	Description       string     `json:"description"`
	Service           Service    `json:"service"`
	Statut            Statut     `json:"statut"`
	DateCreation      time.Time  `json:"dateCreation"`
	DateUpdate        *time.Time `json:"dateUpdate,omitempty"`
	DateResolution    *time.Time `json:"dateResolution,omitempty"`
	ReponseTechnicien string     `json:"reponseTechnicien,omitempty"`
	PhotoPath         string     `json:"photoPath,omitempty"`
	PhotoBase64       string     `json:"photoBase64,omitempty"`
	Demandeur         *User      `json:"demandeur,omitempty"`
	Technicien        *User      `json:"technicien,omitempty"`
}

// Page is the paginated envelope the admin listing endpoint returns.
type Page struct {
	Content       []Reclamation `json:"content"`
	TotalElements int64         `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
	Number        int           `json:"number"`
	Size          int           `json:"size"`
}

// Stats is the admin aggregate view. DureeMoyenneResolutionMinutes is nil
// when no réclamation has been resolved yet.
type Stats struct {
	ParService                    map[Service]int64 `json:"parService"`
	ParStatut                     map[Statut]int64  `json:"parStatut"`
	DureeMoyenneResolutionMinutes *int64            `json:"dureeMoyenneResolutionMinutes"`
}
