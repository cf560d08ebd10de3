package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zhouzirui/po-simulator/backend/internal/model/persona"
)

func TestReplyRequestValidate(t *testing.T) {
	cases := []struct {
		name string
		req  ReplyRequest
		want error
	}{
		{"valid", ReplyRequest{RoleID: persona.Dev, Message: "hi"}, nil},
		{"valid with event", ReplyRequest{RoleID: persona.Dev, Message: "hi", EventID: "E1", EventDescription: "Bug"}, nil},
		{"missing role", ReplyRequest{Message: "hi"}, ErrRoleRequired},
		{"blank role", ReplyRequest{RoleID: "  ", Message: "hi"}, ErrRoleRequired},
		{"missing message", ReplyRequest{RoleID: persona.Dev}, ErrMessageRequired},
		{"blank message", ReplyRequest{RoleID: persona.Dev, Message: " \n"}, ErrMessageRequired},
		{"unknown role", ReplyRequest{RoleID: "cto", Message: "hi"}, ErrUnknownRole},
		{"event id only", ReplyRequest{RoleID: persona.Dev, Message: "hi", EventID: "E1"}, ErrIncompleteEvent},
		{"description only", ReplyRequest{RoleID: persona.Dev, Message: "hi", EventDescription: "Bug"}, ErrIncompleteEvent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
