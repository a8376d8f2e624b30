package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"farmer-market-web/internal/cart"
	"farmer-market-web/internal/payment"

	"github.com/gin-gonic/gin"
)

func registerBuyer(g *gin.RouterGroup) {
	ct := g.Group("/cart")
	{
		ct.GET("", getCart)
		ct.POST("/items", addCartItem)
		ct.PUT("/items/:productId", updateCartItem)
		ct.DELETE("/items/:productId", removeCartItem)
		ct.POST("/favorites", toggleFavorite)
		ct.DELETE("", clearCart)
	}

	g.POST("/checkout", checkout)
	g.GET("/payment/acceptance", acceptance)
}

type cartView struct {
	Items     []cart.CartItem `json:"items"`
	Favorites []cart.Product  `json:"favorites"`
	Totals    cart.Totals     `json:"totals"`
}

func viewCart(s *cart.Store) cartView {
	return cartView{Items: s.Items(), Favorites: s.Favorites(), Totals: s.Totals()}
}

func getCart(c *gin.Context) {
	c.JSON(http.StatusOK, viewCart(container(c).Cart))
}

type addItemRequest struct {
	Product  cart.Product `json:"product"`
	Quantity int          `json:"quantity"`
}

func cartError(c *gin.Context, err error) {
	if errors.Is(err, cart.ErrCartItemNotFound) {
		message(c, http.StatusNotFound, err.Error())
		return
	}
	message(c, http.StatusUnprocessableEntity, err.Error())
}

func addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	s := container(c).Cart
	if err := s.Add(req.Product, req.Quantity); err != nil {
		cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewCart(s))
}

func productID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		message(c, http.StatusBadRequest, "Invalid product id")
		return 0, false
	}
	return id, true
}

func updateCartItem(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	s := container(c).Cart
	if err := s.UpdateQty(id, req.Quantity); err != nil {
		cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewCart(s))
}

func removeCartItem(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	s := container(c).Cart
	s.Remove(id)
	c.JSON(http.StatusOK, viewCart(s))
}

func toggleFavorite(c *gin.Context) {
	var req struct {
		Product cart.Product `json:"product"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	fav := container(c).Cart.ToggleFavorite(req.Product)
	c.JSON(http.StatusOK, gin.H{"favorite": fav})
}

func clearCart(c *gin.Context) {
	s := container(c).Cart
	s.Clear()
	c.JSON(http.StatusOK, viewCart(s))
}

type checkoutRequest struct {
	Method   payment.Method   `json:"method"`
	Customer payment.Customer `json:"customer"`
}

func checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ct := container(c)
	d, err := payment.Checkout(c.Request.Context(), ct.Payment, ct.Cart, req.Method, req.Customer, time.Now())
	if err != nil {
		message(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusCreated, d)
}

func acceptance(c *gin.Context) {
	ct := container(c)
	c.JSON(http.StatusOK, payment.NewAcceptance(ct.Session.UserName(), ct.Payment))
}
