package models

// Room is a physical teaching space.
type Room struct {
	ID        string `db:"id" json:"id"`
	Code      string `db:"code" json:"code"`
	Name      string `db:"name" json:"name"`
	Building  string `db:"building" json:"building"`
	Capacity  int    `db:"capacity" json:"capacity"`
	RoomType  string `db:"room_type" json:"room_type"`
	Available bool   `db:"available" json:"available"`
}
