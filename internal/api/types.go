package api

import (
	"time"

	"github.com/google/uuid"
)

type BookAppointmentRequest struct {
	DoctorID  string    `json:"doctor_id"`
	PatientID string    `json:"patient_id"`
	StartTime time.Time `json:"start_time"`
	Notes     string    `json:"notes,omitempty"`
}

type UpdateAppointmentRequest struct {
	StartTime time.Time `json:"start_time"`
	Notes     string    `json:"notes,omitempty"`
}

type AppointmentResponse struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	PatientID uuid.UUID `json:"patient_id"`
	StartTime time.Time `json:"start_time"`
	Notes     string    `json:"notes,omitempty"`
}

type AppointmentDetailResponse struct {
	AppointmentResponse
	DoctorName      string `json:"doctor_name"`
	DoctorSpecialty string `json:"doctor_specialty,omitempty"`
	PatientName     string `json:"patient_name"`
	PatientEmail    string `json:"patient_email,omitempty"`
}

type AvailabilityResponse struct {
	DoctorID  uuid.UUID `json:"doctor_id"`
	StartTime time.Time `json:"start_time"`
	Available bool      `json:"available"`
}

type DoctorResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Specialty string    `json:"specialty,omitempty"`
	Available bool      `json:"available"`
}

type PatientResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email,omitempty"`
}

type AddMedicineRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

type SetStockRequest struct {
	Quantity int `json:"quantity"`
}

type RecordSaleRequest struct {
	Quantity int `json:"quantity"`
}

type MedicineResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
}

type SaleOutcomeResponse struct {
	MedicineID   uuid.UUID `json:"medicine_id"`
	QuantitySold int       `json:"quantity_sold"`
	Remaining    int       `json:"remaining"`
	UnitPrice    float64   `json:"unit_price"`
	Total        float64   `json:"total"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
