package reminder

import "github.com/gen2brain/beeep"

//go:generate mockgen -source=notifier.go -destination=../mocks/reminder/mock_notifier.go -package=mock_reminder Notifier

// Notifier shows a reminder to the user.
type Notifier interface {
	Notify(title, message string) error
}

// BeeepNotifier shows desktop notifications.
type BeeepNotifier struct{}

// NewBeeepNotifier sets the application name shown by the desktop notifications.
func NewBeeepNotifier(appName string) *BeeepNotifier {
	if appName != "" {
		beeep.AppName = appName
	}
	return &BeeepNotifier{}
}

func (n *BeeepNotifier) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}
