package cache

import (
	"encoding/json"

	"storegen/internal/models"
)

func (c *Cache) Cart() models.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := models.Cart{Items: make([]models.CartItem, len(c.cart.Items))}
	copy(out.Items, c.cart.Items)
	return out
}

// AddToCart increments quantity when the (product, store) pair is
// already present.
func (c *Cache) AddToCart(product models.Product, storeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.cart.Items {
		if item.ProductID == product.ID && item.StoreID == storeID {
			c.cart.Items[i].Quantity++
			c.persistCart()
			return
		}
	}
	c.cart.Items = append(c.cart.Items, models.CartItem{
		ProductID: product.ID,
		StoreID:   storeID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  1,
	})
	c.persistCart()
}

func (c *Cache) RemoveFromCart(productID, storeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.cart.Items[:0]
	for _, item := range c.cart.Items {
		if !(item.ProductID == productID && item.StoreID == storeID) {
			next = append(next, item)
		}
	}
	c.cart.Items = next
	c.persistCart()
}

// UpdateQuantity sets the quantity for an item; zero or less removes it.
func (c *Cache) UpdateQuantity(productID, storeID string, quantity int) {
	if quantity < 1 {
		c.RemoveFromCart(productID, storeID)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.cart.Items {
		if item.ProductID == productID && item.StoreID == storeID {
			c.cart.Items[i].Quantity = quantity
			break
		}
	}
	c.persistCart()
}

func (c *Cache) ClearCart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart = models.Cart{}
	c.persistCart()
}

// persistCart mirrors persistStores. Callers must hold c.mu.
func (c *Cache) persistCart() {
	data, err := json.Marshal(c.cart)
	if err != nil {
		c.logger.Warn("Failed to serialize cart: %v", err)
		return
	}
	if err := c.storage.Set(cartKey, data); err != nil {
		c.logger.Warn("Failed to persist cart: %v", err)
	}
}
