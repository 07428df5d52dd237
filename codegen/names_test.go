package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeNameSingularizesTableName(t *testing.T) {
	assert.Equal(t, "Order", typeName("orders"))
	assert.Equal(t, "OrderItem", typeName("order_items"))
}

func TestPluralTypeNameStaysPluralEvenForSingularTableNames(t *testing.T) {
	assert.Equal(t, "Orders", pluralTypeName("orders"))
	assert.Equal(t, "Orders", pluralTypeName("order"))
}

func TestColumnFieldNameFixesIDAcronym(t *testing.T) {
	assert.Equal(t, "ID", columnFieldName("id"))
	assert.Equal(t, "UserID", columnFieldName("user_id"))
	assert.Equal(t, "Name", columnFieldName("name"))
}
