package models

import "gorm.io/gorm"

type UserPreference struct {
	gorm.Model

	UserID                uint   `gorm:"not null;uniqueIndex"`
	Theme                 string `gorm:"not null;default:system"`
	Language              string `gorm:"not null;default:en"`
	Timezone              string `gorm:"not null;default:UTC"`
	EmailNotifications    bool   `gorm:"not null;default:true"`
	PushNotifications     bool   `gorm:"not null;default:true"`
	WhatsappNotifications bool   `gorm:"not null;default:false"`
	ProjectReminders      bool   `gorm:"not null;default:true"`
	TaskReminders         bool   `gorm:"not null;default:true"`
	EventReminders        bool   `gorm:"not null;default:true"`
	WeeklySummary         bool   `gorm:"not null;default:true"`
}
