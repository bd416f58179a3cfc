package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		code string
		want Type
	}{
		{"sap", TypeERP},
		{"netsuite", TypeERP},
		{"cin7", TypeIMS},
		{"shipstation", TypeOMS},
		{"manhattan", TypeWMS},
		{"amazon", TypeMarketplace},
		{"etsy", TypeMarketplace},
		{"homegrown", TypeOther},
		{"", TypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.code))
		})
	}
}

func TestType_IsValid(t *testing.T) {
	for _, typ := range []Type{TypeERP, TypeIMS, TypeOMS, TypeWMS, TypeMarketplace, TypeOther} {
		assert.True(t, typ.IsValid(), "%s should be valid", typ)
	}
	assert.False(t, Type("crm").IsValid())
}

func TestResultMap_Counts(t *testing.T) {
	m := ResultMap{
		"sap":         {Success: true, Imported: 5},
		"shipstation": {Success: false, Message: "connection refused"},
		"cin7":        {Success: true, Imported: 0},
	}

	assert.Equal(t, 2, m.Succeeded())
	assert.Equal(t, 1, m.Failed())
}

func TestNewInventoryImported(t *testing.T) {
	records := []InventoryRecord{{SKU: "SKU-1", SourceCode: "main"}}
	evt := NewInventoryImported("sap", records)

	assert.Equal(t, EventTypeInventoryImported, evt.EventType())
	assert.Equal(t, "sap", evt.ConnectorCode)
	assert.Len(t, evt.Records, 1)
	assert.False(t, evt.OccurredAt().IsZero())
	assert.NotEqual(t, NewInventoryImported("sap", records).EventID(), evt.EventID())
}
