package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistration_HasSnapshots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		reg  *Registration
		want bool
	}{
		{
			name: "both snapshots present",
			reg: &Registration{
				User:   &User{UserID: 3},
				Course: &Course{ID: 7},
			},
			want: true,
		},
		{
			name: "missing user",
			reg:  &Registration{Course: &Course{ID: 7}},
			want: false,
		},
		{
			name: "missing course",
			reg:  &Registration{User: &User{UserID: 3}},
			want: false,
		},
		{
			name: "nil registration",
			reg:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.reg.HasSnapshots())
		})
	}
}

func TestEnvelope_HasData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want bool
	}{
		{
			name: "object data",
			body: `{"status":200,"data":{"course_id":7}}`,
			want: true,
		},
		{
			name: "array data",
			body: `{"status":200,"data":[]}`,
			want: true,
		},
		{
			name: "null data",
			body: `{"status":200,"data":null}`,
			want: false,
		},
		{
			name: "absent data",
			body: `{"status":200}`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var env Envelope
			require.NoError(t, json.Unmarshal([]byte(tt.body), &env))
			assert.Equal(t, tt.want, env.HasData())
		})
	}
}

func TestRegistrationStatus_Unmarshal(t *testing.T) {
	t.Parallel()

	var reg Registration
	require.NoError(t, json.Unmarshal([]byte(`{
		"course_registration_id": 101,
		"course_registration_status": "ACCEPTED"
	}`), &reg))

	assert.Equal(t, RegistrationAccepted, reg.Status)
}
