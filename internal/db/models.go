package db

import (
	"encoding/json"
	"time"
)

// Article maps newsdesk.articles. It carries the scraped fields, the
// editorial lifecycle status, and every analysis facet the pipeline
// computes at ingest time.
type Article struct {
	ArticleID   int64  `gorm:"column:article_id;primaryKey;autoIncrement"`
	ArticleUUID string `gorm:"column:article_uuid;type:uuid;not null;default:gen_random_uuid();unique"`
	DisplayID   string `gorm:"column:display_id;type:text;not null;default:''"`

	Title       string     `gorm:"column:title;type:text;not null"`
	URL         string     `gorm:"column:url;type:text;not null;unique"`
	Source      string     `gorm:"column:source;type:text;not null"`
	Author      *string    `gorm:"column:author;type:text"`
	PublishDate *time.Time `gorm:"column:publish_date;type:timestamptz"`
	Category    *string    `gorm:"column:category;type:text"`
	Description *string    `gorm:"column:description;type:text"`
	ArticleBody *string    `gorm:"column:article_body;type:text"`
	ImageURL    *string    `gorm:"column:image_url;type:text"`

	Status      string     `gorm:"column:status;type:text;not null;default:pulled"`
	ContentHash string     `gorm:"column:content_hash;type:text;not null;unique"`
	Language    string     `gorm:"column:language;type:text;not null;default:und"`
	PublishedAt *time.Time `gorm:"column:published_at;type:timestamptz"`

	QualityScore     *int            `gorm:"column:quality_score;type:integer"`
	AITags           json.RawMessage `gorm:"column:ai_tags;type:jsonb"`
	AISummary        *string         `gorm:"column:ai_summary;type:text"`
	SentimentScore   *float64        `gorm:"column:sentiment_score;type:double precision"`
	ReadabilityScore *float64        `gorm:"column:readability_score;type:double precision"`
	KeyEntities      json.RawMessage `gorm:"column:key_entities;type:jsonb"`
	TopicCategory    *string         `gorm:"column:topic_category;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (Article) TableName() string { return "newsdesk.articles" }

// ActivityLog maps newsdesk.activity_logs. Rows are append-only and
// best-effort; a failed insert never fails the operation that produced it.
type ActivityLog struct {
	ActivityLogID   int64           `gorm:"column:activity_log_id;primaryKey;autoIncrement"`
	ActivityLogUUID string          `gorm:"column:activity_log_uuid;type:uuid;not null;default:gen_random_uuid();unique"`
	Action          string          `gorm:"column:action;type:text;not null"`
	ArticleID       *int64          `gorm:"column:article_id;type:bigint"`
	Details         json.RawMessage `gorm:"column:details;type:jsonb"`
	CreatedAt       time.Time       `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (ActivityLog) TableName() string { return "newsdesk.activity_logs" }

// ScrapeRun maps newsdesk.scrape_runs, one row per ingest batch.
type ScrapeRun struct {
	ScrapeRunID    int64      `gorm:"column:scrape_run_id;primaryKey;autoIncrement"`
	ScrapeRunUUID  string     `gorm:"column:scrape_run_uuid;type:uuid;not null;default:gen_random_uuid();unique"`
	Source         string     `gorm:"column:source;type:text;not null"`
	StartedAt      time.Time  `gorm:"column:started_at;type:timestamptz;not null;default:now()"`
	FinishedAt     *time.Time `gorm:"column:finished_at;type:timestamptz"`
	Status         string     `gorm:"column:status;type:text;not null;default:running"`
	ItemsReceived  int        `gorm:"column:items_received;type:integer;not null;default:0"`
	ItemsInserted  int        `gorm:"column:items_inserted;type:integer;not null;default:0"`
	ItemsDuplicate int        `gorm:"column:items_duplicate;type:integer;not null;default:0"`
	ItemsInvalid   int        `gorm:"column:items_invalid;type:integer;not null;default:0"`
	ErrorMessage   *string    `gorm:"column:error_message;type:text"`
}

func (ScrapeRun) TableName() string { return "newsdesk.scrape_runs" }

func autoMigrateModels() []any {
	return []any{
		&Article{},
		&ActivityLog{},
		&ScrapeRun{},
	}
}
