package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/abihavaraj/animo-sub007/models"
	"github.com/abihavaraj/animo-sub007/notifications"
)

func TestNotificationHandlers(t *testing.T) {
	createdAt := time.Date(2023, 4, 3, 10, 0, 0, 0, time.UTC)
	records := []models.NotificationRecord{
		{
			ID:           "abc123",
			UserID:       "user1",
			Type:         models.NotificationCancellation,
			Title:        "Class Cancelled",
			Message:      "Reformer Flow on Apr 5, 2023 at 9:00 AM has been cancelled.",
			ClassID:      "class1",
			ScheduledFor: createdAt,
			CreatedAt:    createdAt,
			UpdatedAt:    createdAt,
		},
	}

	runAPITests(t, apiTests{
		{
			name:   "Get notifications",
			path:   "/v1/studio/notifications/user1",
			method: http.MethodGet,
			setNodeMethods: func(n *mockNode) {
				n.getUserNotificationsFunc = func(userID string, limit int) ([]models.NotificationRecord, error) {
					if userID != "user1" {
						return nil, errors.New("unknown user")
					}
					return records, nil
				}
			},
			statusCode: http.StatusOK,
			expectedResponse: func() ([]byte, error) {
				return marshalAndSanitizeJSON(records)
			},
		},
		{
			name:   "Get notifications with limit",
			path:   "/v1/studio/notifications/user1?limit=1",
			method: http.MethodGet,
			setNodeMethods: func(n *mockNode) {
				n.getUserNotificationsFunc = func(userID string, limit int) ([]models.NotificationRecord, error) {
					if limit != 1 {
						return nil, errors.New("limit not passed through")
					}
					return records, nil
				}
			},
			statusCode: http.StatusOK,
			expectedResponse: func() ([]byte, error) {
				return marshalAndSanitizeJSON(records)
			},
		},
		{
			name:   "Get notifications invalid limit",
			path:   "/v1/studio/notifications/user1?limit=xyz",
			method: http.MethodGet,
			setNodeMethods: func(n *mockNode) {
				n.getUserNotificationsFunc = func(userID string, limit int) ([]models.NotificationRecord, error) {
					return nil, nil
				}
			},
			statusCode: http.StatusBadRequest,
			expectedResponse: func() ([]byte, error) {
				return []byte(fmt.Sprintf("%s\n", `{"error": "strconv.Atoi: parsing \"xyz\": invalid syntax"}`)), nil
			},
		},
		{
			name:   "Get notifications fail",
			path:   "/v1/studio/notifications/user1",
			method: http.MethodGet,
			setNodeMethods: func(n *mockNode) {
				n.getUserNotificationsFunc = func(userID string, limit int) ([]models.NotificationRecord, error) {
					return nil, errors.New("error")
				}
			},
			statusCode: http.StatusInternalServerError,
			expectedResponse: func() ([]byte, error) {
				return []byte(fmt.Sprintf("%s\n", `{"error": "error"}`)), nil
			},
		},
		{
			name:   "Get unread count",
			path:   "/v1/studio/notifications/user1/unreadcount",
			method: http.MethodGet,
			setNodeMethods: func(n *mockNode) {
				n.unreadCountFunc = func(userID string) (int, error) {
					return 3, nil
				}
			},
			statusCode: http.StatusOK,
			expectedResponse: func() ([]byte, error) {
				return marshalAndSanitizeJSON(struct {
					Unread int `json:"unread"`
				}{3})
			},
		},
		{
			name:   "Get unread count fail",
			path:   "/v1/studio/notifications/user1/unreadcount",
			method: http.MethodGet,
			setNodeMethods: func(n *mockNode) {
				n.unreadCountFunc = func(userID string) (int, error) {
					return 0, errors.New("error")
				}
			},
			statusCode: http.StatusInternalServerError,
			expectedResponse: func() ([]byte, error) {
				return []byte(fmt.Sprintf("%s\n", `{"error": "error"}`)), nil
			},
		},
		{
			name:   "Post mark read",
			path:   "/v1/studio/markread/abc123",
			method: http.MethodPost,
			setNodeMethods: func(n *mockNode) {
				n.markNotificationReadFunc = func(notificationID string) error {
					if notificationID != "abc123" {
						return errors.New("wrong id")
					}
					return nil
				}
			},
			statusCode: http.StatusOK,
			expectedResponse: func() ([]byte, error) {
				return marshalAndSanitizeJSON(struct{}{})
			},
		},
		{
			name:   "Post mark read not found",
			path:   "/v1/studio/markread/nope",
			method: http.MethodPost,
			setNodeMethods: func(n *mockNode) {
				n.markNotificationReadFunc = func(notificationID string) error {
					return notifications.ErrNotFound
				}
			},
			statusCode: http.StatusNotFound,
			expectedResponse: func() ([]byte, error) {
				return []byte(fmt.Sprintf("%s\n", `{"error": "not found"}`)), nil
			},
		},
		{
			name:   "Post mark all read",
			path:   "/v1/studio/markallread/user1",
			method: http.MethodPost,
			setNodeMethods: func(n *mockNode) {
				n.markAllNotificationsReadFunc = func(userID string) error {
					if userID != "user1" {
						return errors.New("wrong user")
					}
					return nil
				}
			},
			statusCode: http.StatusOK,
			expectedResponse: func() ([]byte, error) {
				return marshalAndSanitizeJSON(struct{}{})
			},
		},
		{
			name:   "Post mark all read fail",
			path:   "/v1/studio/markallread/user1",
			method: http.MethodPost,
			setNodeMethods: func(n *mockNode) {
				n.markAllNotificationsReadFunc = func(userID string) error {
					return errors.New("error")
				}
			},
			statusCode: http.StatusInternalServerError,
			expectedResponse: func() ([]byte, error) {
				return []byte(fmt.Sprintf("%s\n", `{"error": "error"}`)), nil
			},
		},
		{
			name:   "Post broadcast",
			path:   "/v1/studio/broadcast",
			method: http.MethodPost,
			body:   []byte(`{"tokens": ["ExponentPushToken[aaa]", "ExponentPushToken[bbb]"], "title": "Studio closed", "body": "Closed Monday for maintenance."}`),
			setNodeMethods: func(n *mockNode) {
				n.broadcastFunc = func(tokens []string, title, body string) notifications.DeliveryResult {
					if len(tokens) != 2 {
						return notifications.DeliveryResult{}
					}
					return notifications.DeliveryResult{Delivered: 2}
				}
			},
			statusCode: http.StatusOK,
			expectedResponse: func() ([]byte, error) {
				return marshalAndSanitizeJSON(struct {
					Success bool `json:"success"`
					notifications.DeliveryResult
				}{true, notifications.DeliveryResult{Delivered: 2}})
			},
		},
		{
			name:   "Post broadcast invalid JSON",
			path:   "/v1/studio/broadcast",
			method: http.MethodPost,
			body:   []byte(`{`),
			setNodeMethods: func(n *mockNode) {
				n.broadcastFunc = func(tokens []string, title, body string) notifications.DeliveryResult {
					return notifications.DeliveryResult{}
				}
			},
			statusCode: http.StatusBadRequest,
			expectedResponse: func() ([]byte, error) {
				return []byte(fmt.Sprintf("%s\n", `{"error": "unexpected EOF"}`)), nil
			},
		},
	})
}
