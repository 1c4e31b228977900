package claim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from, to State
		wantErr  bool
	}{
		{StateUnclaimed, StateClaiming, false},
		{StateClaiming, StateClaimed, false},
		{StateClaiming, StateFailed, false},
		{StateFailed, StateClaiming, false},
		{StateUnclaimed, StateClaimed, true},
		{StateClaimed, StateClaiming, true},
		{StateClaimed, StateFailed, true},
		{StateClaiming, StateClaiming, true},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			got, err := Transition(tt.from, tt.to)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.to, got)
		})
	}
}
