package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type BaseModel struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Event struct {
	BaseModel
	Title              string         `db:"title"`
	Description        string         `db:"description"`
	StartDate          time.Time      `db:"start_date"`
	EndDate            *time.Time     `db:"end_date"`
	LocationName       string         `db:"location_name"`
	LocationAddress    string         `db:"location_address"`
	IsOnline           bool           `db:"is_online"`
	OnlineURL          string         `db:"online_url"`
	Categories         pq.StringArray `db:"categories"`
	ImageURL           string         `db:"image_url"`
	SourceURL          string         `db:"source_url"`
	SourcePlatform     string         `db:"source_platform"`
	SourceID           string         `db:"source_id"`
	OrganizerName      string         `db:"organizer_name"`
	OrganizerTitle     string         `db:"organizer_title"`
	OrganizerCompany   string         `db:"organizer_company"`
	OrganizerAvatarURL string         `db:"organizer_avatar_url"`
	Status             string         `db:"status"`
}

type Subscriber struct {
	ID        uuid.UUID `db:"id"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}
