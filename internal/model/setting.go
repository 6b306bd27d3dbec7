package model

// SettingDefaultWebhook is the settings key holding the fallback webhook URL
// used when an alert has no override of its own.
const SettingDefaultWebhook = "default_webhook_url"

// Setting is one entry of the flat key-value configuration store. Writing an
// existing key replaces its value.
type Setting struct {
	Key   string `gorm:"primaryKey;type:varchar(64)" json:"key"`
	Value string `json:"value"`
}

func (Setting) TableName() string {
	return "settings"
}
