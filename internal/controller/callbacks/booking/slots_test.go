package booking

import (
	"testing"

	"github.com/Freeeeeet/availability_engine/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestAttendeeName(t *testing.T) {
	assert.Equal(t, "Ann Lee", attendeeName(&model.User{FirstName: "Ann", LastName: "Lee"}))
	assert.Equal(t, "Ann", attendeeName(&model.User{FirstName: "Ann"}))
	assert.Equal(t, "@ann", attendeeName(&model.User{Username: "ann"}))
}
