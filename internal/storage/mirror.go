package storage

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/minho-song/newsarchiver/internal/crawler"
)

// SourceRow registers one configured source in the mirror database.
type SourceRow struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Code    string `gorm:"size:64;uniqueIndex" json:"code"`
	Name    string `gorm:"size:128" json:"name"`
	BaseURL string `gorm:"size:256" json:"baseUrl"`
	Status  string `gorm:"size:32;index" json:"status"` // active / disabled

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (SourceRow) TableName() string { return "sources" }

// ArticleRow is one archived article. The file stores stay the source
// of truth; this table exists for URL-keyed lookups and title search.
type ArticleRow struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	URL           string            `gorm:"size:1024;uniqueIndex" json:"url"`
	Title         string            `gorm:"size:512" json:"title"`
	Source        string            `gorm:"size:64;index" json:"source"`
	Img           string            `gorm:"size:1024" json:"img"`
	Summary       string            `gorm:"size:2048" json:"summary"`
	PublishedAt   time.Time         `gorm:"index" json:"publishedAt"`
	PublishedDate string            `gorm:"size:10;index" json:"publishedDate"` // YYYY-MM-DD
	Extra         datatypes.JSONMap `gorm:"type:jsonb" json:"extra"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ArticleRow) TableName() string { return "articles" }

// Mirror is the optional Postgres sink behind the file stores. A nil
// *Mirror is valid and turns every method into a no-op, so callers
// never branch on whether mirroring is configured.
type Mirror struct {
	DB *gorm.DB
}

func NewMirror(dsn string) (*Mirror, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open mirror db: %w", err)
	}
	if err := db.AutoMigrate(&SourceRow{}, &ArticleRow{}); err != nil {
		return nil, fmt.Errorf("migrate mirror db: %w", err)
	}
	return &Mirror{DB: db}, nil
}

// EnsureSource makes sure the source registry row exists.
func (m *Mirror) EnsureSource(code, name, baseURL string) error {
	if m == nil {
		return nil
	}
	row := &SourceRow{}
	if err := m.DB.Where("code = ?", code).First(row).Error; err == nil {
		return nil
	}
	row = &SourceRow{Code: code, Name: name, BaseURL: baseURL, Status: "active"}
	return m.DB.Create(row).Error
}

// SaveBatch upserts a merged batch keyed by URL inside one
// transaction, so a mid-batch failure leaves no partial mirror state.
// Re-running a crawl updates summaries in place instead of duplicating
// rows.
func (m *Mirror) SaveBatch(source string, articles []crawler.Article) error {
	if m == nil {
		return nil
	}
	return m.DB.Transaction(func(tx *gorm.DB) error {
		for _, a := range articles {
			publishedAt, _ := time.ParseInLocation("2006-01-02T15:04:05", a.Time, time.Local)
			row := &ArticleRow{
				URL:           a.URL,
				Title:         strings.ToValidUTF8(a.Title, "�"),
				Source:        source,
				Img:           a.Img,
				Summary:       strings.ToValidUTF8(a.Summary, "�"),
				PublishedAt:   publishedAt,
				PublishedDate: publishedAt.Format("2006-01-02"),
				Extra: datatypes.JSONMap{
					"raw_time": a.Time,
				},
			}
			if err := tx.Where("url = ?", a.URL).FirstOrCreate(row).Error; err != nil {
				return fmt.Errorf("mirror %s: %w", a.URL, err)
			}
			if err := tx.Model(row).Updates(map[string]any{
				"title":   row.Title,
				"summary": row.Summary,
				"img":     row.Img,
			}).Error; err != nil {
				log.Printf("warn: mirror update %s: %v", a.URL, err)
			}
		}
		return nil
	})
}

// Search returns articles whose title matches q, newest first.
func (m *Mirror) Search(q string, limit int) ([]ArticleRow, error) {
	if m == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []ArticleRow
	err := m.DB.Model(&ArticleRow{}).
		Where("title ILIKE ?", "%"+q+"%").
		Order("published_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
