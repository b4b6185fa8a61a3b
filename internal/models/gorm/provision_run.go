package gorm

import "time"

// ProvisionRun records one provisioning attempt against a MongoDB database
type ProvisionRun struct {
	ID         string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	Database   string    `gorm:"column:database_name;type:varchar(128);not null;index"`
	Command    string    `gorm:"column:command;type:varchar(32);not null"`
	Status     string    `gorm:"column:status;type:varchar(20);not null"`
	Created    int       `gorm:"column:created_count;not null;default:0"`
	Existing   int       `gorm:"column:existing_count;not null;default:0"`
	Error      string    `gorm:"column:error;type:text"`
	Host       string    `gorm:"column:host;type:varchar(255)"`
	StartedAt  time.Time `gorm:"column:started_at;not null"`
	FinishedAt time.Time `gorm:"column:finished_at;not null"`
}

// TableName specifies the table name for GORM
func (ProvisionRun) TableName() string {
	return "provision_runs"
}
