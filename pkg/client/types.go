package client

import "time"

// Customer mirrors the API's customer resource.
type Customer struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone,omitempty"`
	TotalSpending float64    `json:"total_spending"`
	LastVisit     *time.Time `json:"last_visit,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Order mirrors the API's order resource.
type Order struct {
	ID          int64     `json:"id"`
	CustomerID  int64     `json:"customer_id"`
	OrderAmount float64   `json:"order_amount"`
	OrderDate   time.Time `json:"order_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Condition is one segment rule. Value is typed by the field: numbers for
// total_spending and order_count, an RFC 3339 or YYYY-MM-DD string for
// last_visit, plain text for name and email.
type Condition struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

// Segment mirrors the API's segment resource.
type Segment struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Conditions   []Condition `json:"conditions"`
	Logic        string      `json:"logic"`
	AudienceSize *int64      `json:"audience_size,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Campaign mirrors the API's campaign resource.
type Campaign struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SegmentID int64     `json:"segment_id"`
	Message   string    `json:"message"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VendorResponse is the delivery vendor's acknowledgement attached to a log.
type VendorResponse struct {
	MessageID    string     `json:"message_id,omitempty"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// CommunicationLog mirrors one per-recipient delivery record.
type CommunicationLog struct {
	ID             int64           `json:"id"`
	CustomerID     int64           `json:"customer_id"`
	CampaignID     int64           `json:"campaign_id"`
	DeliveryStatus string          `json:"delivery_status"`
	Message        string          `json:"message"`
	VendorResponse *VendorResponse `json:"vendor_response,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// DeliveryBucket is one delivery latency band.
type DeliveryBucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// CampaignStats is the delivery breakdown for one campaign. Source records
// whether the numbers came from the stats endpoint or were derived client
// side from the raw communication logs.
type CampaignStats struct {
	Sent            int64            `json:"sent"`
	Failed          int64            `json:"failed"`
	Pending         int64            `json:"pending"`
	AudienceSize    int64            `json:"audience_size"`
	SuccessRate     float64          `json:"success_rate"`
	DeliveryBuckets []DeliveryBucket `json:"delivery_buckets"`
	Source          string           `json:"-"`
}

// Stats sources.
const (
	StatsSourceServer  = "server"
	StatsSourceDerived = "derived"
)

// GrowthEstimate is the dashboard's growth figures. Estimated marks values
// that are illustrative rather than measured.
type GrowthEstimate struct {
	Estimated  bool    `json:"estimated"`
	Customers  float64 `json:"customers"`
	Segments   float64 `json:"segments"`
	Campaigns  float64 `json:"campaigns"`
	Engagement float64 `json:"engagement"`
}

// DashboardStats mirrors the dashboard aggregate.
type DashboardStats struct {
	TotalCustomers  int64          `json:"total_customers"`
	ActiveSegments  int64          `json:"active_segments"`
	CampaignsSent   int64          `json:"campaigns_sent"`
	EngagementRate  float64        `json:"engagement_rate"`
	RecentCustomers int64          `json:"recent_customers"`
	RecentSegments  int64          `json:"recent_segments"`
	RecentCampaigns int64          `json:"recent_campaigns"`
	MonthlyGrowth   GrowthEstimate `json:"monthly_growth"`
}

// PreviewResult is the response to a segment preview.
type PreviewResult struct {
	AudienceSize    int64      `json:"audience_size"`
	SampleCustomers []Customer `json:"sample_customers"`
}

// CreateCampaignResult is the response to creating a campaign.
type CreateCampaignResult struct {
	Campaign       Campaign `json:"campaign"`
	AudienceSize   int64    `json:"audience_size"`
	MessagesQueued int      `json:"messages_queued"`
}

// CampaignHistoryEntry is one row of the campaign history listing.
type CampaignHistoryEntry struct {
	Campaign
	SegmentName string        `json:"segment_name,omitempty"`
	Stats       CampaignStats `json:"stats"`
}

// User is the authenticated session user.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
	Avatar   string `json:"avatar,omitempty"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// Page couples list items with their pagination info. Pagination is nil for
// unpaginated listings.
type Page[T any] struct {
	Items      []T
	Pagination *Pagination
}
