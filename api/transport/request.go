package transport

type LeadCreateRequest struct {
	FranchiseID string `json:"franchise_id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Source      string `json:"source"`
	Status      string `json:"status"`
	AssignedTo  string `json:"assigned_to"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type ReassignRequest struct {
	AssignedTo string `json:"assigned_to"`
}

type NoteRequest struct {
	Text string `json:"text"`
}

type FollowUpRequest struct {
	Notes        string `json:"notes"`
	ScheduledFor string `json:"scheduled_for"`
}

type ConvertRequest struct {
	BookingID string `json:"booking_id"`
}

type BulkRequest struct {
	IDs         []string `json:"ids"`
	Operation   string   `json:"operation"`
	FranchiseID string   `json:"franchise_id"`
	Status      string   `json:"status"`
	Filename    string   `json:"filename"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
	Channel string `json:"channel"`
}

type AuthLoginRequest struct {
	ActorID string `json:"actor_id"`
	TTL     int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}
