package loadgen

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstitute(t *testing.T) {
	assert.Equal(t, "/order/order123/pay", Substitute("/order/{orderId}/pay"))
	assert.Equal(t, "/product/category/cat123", Substitute("/product/category/{category_id}"))
	assert.Equal(t, "/tenant/tenantOld", Substitute("/tenant/{old_tenant_id}"))
	assert.Equal(t, "/tenant/tenant123", Substitute("/tenant/{tenant_id}"))
	assert.Equal(t, "/wishlist/id123", Substitute("/wishlist/{id}"))
	assert.Equal(t, "/product", Substitute("/product"))
}

func TestDefaultEndpoints(t *testing.T) {
	endpoints := DefaultEndpoints()
	bases := DefaultBaseURLs()

	assert.Len(t, endpoints, 35)
	total := 0
	names := map[string]bool{}
	for _, ep := range endpoints {
		total += ep.Weight
		assert.False(t, names[ep.Name], "duplicate endpoint %s", ep.Name)
		names[ep.Name] = true
		assert.Contains(t, bases, ep.Service, ep.Name)
		if len(ep.Payload) > 0 {
			assert.True(t, json.Valid(ep.Payload), ep.Name)
		}
	}
	assert.Equal(t, 230, total)
}

func TestBaseURLsResolve(t *testing.T) {
	bases := BaseURLs{ServiceProducts: "http://products:5003/"}
	ep := Endpoint{Service: ServiceProducts, Path: "/product/{id}"}

	assert.Equal(t, "http://products:5003/product/id123", bases.URL(ep))
}
