package api

type CreateAppointmentRequest struct {
	PatientID  string `json:"patient_id"`
	ProviderID string `json:"provider_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Location   string `json:"location"`
	Reason     string `json:"reason,omitempty"`
}

type CancelAppointmentRequest struct {
	Actor string `json:"actor"`
}

type RescheduleAppointmentRequest struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
}

type WindowResponse struct {
	Day      string `json:"day"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Location string `json:"location"`
}

type AvailabilityResponse struct {
	ProviderID string           `json:"provider_id"`
	Date       string           `json:"date"`
	Bookable   bool             `json:"bookable"`
	Windows    []WindowResponse `json:"windows"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
