package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   PageRequest
		want PageRequest
	}{
		{name: "zero value", in: PageRequest{}, want: PageRequest{Page: 1, PageSize: DefaultPageSize}},
		{name: "negative page", in: PageRequest{Page: -3, PageSize: 5}, want: PageRequest{Page: 1, PageSize: 5}},
		{name: "keeps account", in: PageRequest{AccountID: "a1", Page: 2, PageSize: 10}, want: PageRequest{AccountID: "a1", Page: 2, PageSize: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, PageRequest{Page: 3, PageSize: 20}.Offset())
	assert.Equal(t, 0, PageRequest{}.Offset())
}

func TestPageRequest_OffsetSaturates(t *testing.T) {
	assert.Equal(t, math.MaxInt, PageRequest{Page: math.MaxInt/2 + 2, PageSize: 2}.Offset())
	assert.Equal(t, math.MaxInt, PageRequest{Page: 3, PageSize: math.MaxInt}.Offset())
	assert.Equal(t, math.MaxInt-1, PageRequest{Page: 2, PageSize: math.MaxInt - 1}.Offset())
}
