package wishlist

import (
	"context"
	"database/sql"
	"time"

	"bibassist-backend/lib/scrapers/webopac"

	_ "modernc.org/sqlite"
)

// Store persists fully-resolved catalogue items the user saved. the
// scraping pipeline itself never writes here, the app layer hands records
// over once they are resolved.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

type Entry struct {
	Item    webopac.Item
	AddedAt time.Time
}

func (s Store) Add(ctx context.Context, item webopac.Item) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO wishlist_item (url, title, publication_year, medium, author, available, added_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
		   title = excluded.title,
		   publication_year = excluded.publication_year,
		   medium = excluded.medium,
		   author = excluded.author,
		   available = excluded.available`,
		item.SourceUrl,
		item.Title,
		item.PublicationYear,
		item.Medium.String(),
		item.Author,
		item.Available,
		time.Now().Unix(),
	)
	return err
}

func (s Store) Remove(ctx context.Context, sourceUrl string) error {
	_, err := s.db.ExecContext(
		ctx,
		`DELETE FROM wishlist_item WHERE url = ?`,
		sourceUrl,
	)
	return err
}

func (s Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT url, title, publication_year, medium, author, available, added_at
		 FROM wishlist_item ORDER BY added_at, url`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var medium string
		var addedAt int64
		err := rows.Scan(
			&entry.Item.SourceUrl,
			&entry.Item.Title,
			&entry.Item.PublicationYear,
			&medium,
			&entry.Item.Author,
			&entry.Item.Available,
			&addedAt,
		)
		if err != nil {
			return nil, err
		}
		entry.Item.Medium = webopac.MediumFromMarkup(medium)
		entry.AddedAt = time.Unix(addedAt, 0)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
