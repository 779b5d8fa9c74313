package model

import "time"

const TableNameGameSave = "game_saves"

type GameSave struct {
	GameID    string    `gorm:"column:game_id;primaryKey" json:"game_id"`
	Payload   []byte    `gorm:"column:payload;not null" json:"payload"`
	Version   int64     `gorm:"column:version;not null" json:"version"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (*GameSave) TableName() string {
	return TableNameGameSave
}
