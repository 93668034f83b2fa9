package database

import (
	"context"
	"database/sql"
	"fmt"

	"ecobank/internal/models"
)

func (r *Repository) LoadItems(ctx context.Context) ([]models.ScannedItem, error) {
	query := `
		SELECT id, qr_code, name, category, quantity, price, co2, status, scanned_at, approved_at, store_name
		FROM scanned_items
		ORDER BY ` + insertionOrder(r.driver)

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.ScannedItem
	for rows.Next() {
		var item models.ScannedItem
		var status string
		var co2 sql.NullFloat64
		var approvedAt sql.NullTime

		err := rows.Scan(
			&item.ID,
			&item.QRCode,
			&item.Name,
			&item.Category,
			&item.Quantity,
			&item.Price,
			&co2,
			&status,
			&item.ScannedAt,
			&approvedAt,
			&item.StoreName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}

		item.Status = models.ItemStatus(status)
		if co2.Valid {
			v := co2.Float64
			item.CO2 = &v
		}
		if approvedAt.Valid {
			at := approvedAt.Time
			item.ApprovedAt = &at
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

func (r *Repository) InsertItem(ctx context.Context, item models.ScannedItem) error {
	query := `
		INSERT INTO scanned_items (id, qr_code, name, category, quantity, price, co2, status, scanned_at, approved_at, store_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.exec(ctx, query,
		item.ID, item.QRCode, item.Name, item.Category, item.Quantity, item.Price,
		nullFloat(item.CO2), string(item.Status), item.ScannedAt.UTC(), nullTime(item.ApprovedAt), item.StoreName)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	return nil
}

// UpdateItem writes the approval fields of an existing item.
func (r *Repository) UpdateItem(ctx context.Context, item models.ScannedItem) error {
	query := `
		UPDATE scanned_items
		SET status = ?, co2 = ?, approved_at = ?
		WHERE id = ?
	`

	result, err := r.exec(ctx, query, string(item.Status), nullFloat(item.CO2), nullTime(item.ApprovedAt), item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("item not found: %s", item.ID)
	}

	return nil
}
