package mocks

import "github.com/Mirxonjon/charge-one-backend/domain"

// MockSmsService implements domain.SmsService for testing
type MockSmsService struct {
	SendSMSFunc func(to, message string) error
	Sent        []SentSMS
}

type SentSMS struct {
	To      string
	Message string
}

// NewMockSmsService creates a new MockSmsService with default behaviors
func NewMockSmsService() *MockSmsService {
	return &MockSmsService{}
}

// SendSMS records the message and delegates to SendSMSFunc when set
func (m *MockSmsService) SendSMS(to, message string) error {
	m.Sent = append(m.Sent, SentSMS{To: to, Message: message})
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.SmsService = (*MockSmsService)(nil)
