package model

// Menu is one entry of the agent console navigation. Top-level entries have
// PID 0.
type Menu struct {
	ID          int64   `db:"id" json:"id"`
	GroupPrefix *string `db:"group_prefix" json:"-"`
	PID         int64   `db:"pid" json:"pid"`
	Title       string  `db:"title" json:"title"`
	Path        string  `db:"path" json:"path"`
	Icon        string  `db:"icon" json:"icon"`
	Sort        int     `db:"sort" json:"sort"`
	Status      int     `db:"status" json:"status"`

	Children []Menu `db:"-" json:"children"`
}
