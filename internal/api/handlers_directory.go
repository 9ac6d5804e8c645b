package api

import (
	"net/http"

	"github.com/carepoint/scheduling-stock-service/internal/directory"
)

func listDoctorsHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.ListAvailableDoctors(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]DoctorResponse, 0, len(doctors))
		for _, d := range doctors {
			dr := DoctorResponse{
				ID:        d.ID,
				FullName:  d.FullName,
				Available: d.Available,
			}
			if d.Specialty != nil {
				dr.Specialty = *d.Specialty
			}
			resp = append(resp, dr)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func listPatientsHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patients, err := svc.ListPatients(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]PatientResponse, 0, len(patients))
		for _, p := range patients {
			pr := PatientResponse{
				ID:       p.ID,
				FullName: p.FullName,
			}
			if p.Email != nil {
				pr.Email = *p.Email
			}
			resp = append(resp, pr)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
