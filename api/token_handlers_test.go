package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/abihavaraj/animo-sub007/models"
	"github.com/abihavaraj/animo-sub007/notifications"
)

func TestPushTokenHandlers(t *testing.T) {
	runAPITests(t, apiTests{
		{
			name:   "Post push token",
			path:   "/v1/studio/pushtoken",
			method: http.MethodPost,
			body:   []byte(`{"userID": "user1", "token": "ExponentPushToken[aaa]", "deviceType": "ios", "deviceName": "iPhone"}`),
			setNodeMethods: func(n *mockNode) {
				n.registerPushTokenFunc = func(token *models.PushToken) error {
					if token.UserID != "user1" || token.Token != "ExponentPushToken[aaa]" {
						return errors.New("token not passed through")
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
			name:   "Post push token malformed",
			path:   "/v1/studio/pushtoken",
			method: http.MethodPost,
			body:   []byte(`{"userID": "user1", "token": "not-a-token"}`),
			setNodeMethods: func(n *mockNode) {
				n.registerPushTokenFunc = func(token *models.PushToken) error {
					return notifications.ErrBadRequest
				}
			},
			statusCode: http.StatusBadRequest,
			expectedResponse: func() ([]byte, error) {
				return []byte(fmt.Sprintf("%s\n", `{"error": "bad request"}`)), nil
			},
		},
		{
			name:   "Post push token invalid JSON",
			path:   "/v1/studio/pushtoken",
			method: http.MethodPost,
			body:   []byte(`{`),
			setNodeMethods: func(n *mockNode) {
				n.registerPushTokenFunc = func(token *models.PushToken) error {
					return nil
				}
			},
			statusCode: http.StatusBadRequest,
			expectedResponse: func() ([]byte, error) {
				return []byte(fmt.Sprintf("%s\n", `{"error": "unexpected EOF"}`)), nil
			},
		},
		{
			name:   "Delete push token",
			path:   "/v1/studio/pushtoken/ExponentPushToken[aaa]",
			method: http.MethodDelete,
			setNodeMethods: func(n *mockNode) {
				n.removePushTokenFunc = func(token string) error {
					if token != "ExponentPushToken[aaa]" {
						return errors.New("wrong token")
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
			name:   "Delete push token not found",
			path:   "/v1/studio/pushtoken/ExponentPushToken[zzz]",
			method: http.MethodDelete,
			setNodeMethods: func(n *mockNode) {
				n.removePushTokenFunc = func(token string) error {
					return notifications.ErrNotFound
				}
			},
			statusCode: http.StatusNotFound,
			expectedResponse: func() ([]byte, error) {
				return []byte(fmt.Sprintf("%s\n", `{"error": "not found"}`)), nil
			},
		},
	})
}
