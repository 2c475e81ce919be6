package models

import "database/sql"

type Setting struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	RequireClaim bool    `json:"require_claim"`
	MinPayout    float64 `json:"min_payout"`
	MaxPayout    float64 `json:"max_payout"`
	Maintenance  bool    `json:"maintenance"`
	LinkGroup    string  `json:"link_group"`
}

func GetSetting(db *sql.DB) (*Setting, error) {
	setting := &Setting{}
	row := db.QueryRow("SELECT id, name, require_claim, min_payout, max_payout, maintenance, link_group FROM settings LIMIT 1")
	err := row.Scan(
		&setting.ID,
		&setting.Name,
		&setting.RequireClaim,
		&setting.MinPayout,
		&setting.MaxPayout,
		&setting.Maintenance,
		&setting.LinkGroup,
	)
	if err != nil {
		return nil, err
	}
	return setting, nil
}
