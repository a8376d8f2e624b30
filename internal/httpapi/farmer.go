package httpapi

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"farmer-market-web/internal/delivery"
	"farmer-market-web/internal/directorder"
	"farmer-market-web/internal/logger"
	"farmer-market-web/internal/produce"
	"farmer-market-web/internal/trackorder"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func registerFarmer(g *gin.RouterGroup) {
	p := g.Group("/produce")
	{
		p.GET("", listProduce)
		p.GET("/:id", getProduce)
		p.POST("", submitProduce)
		p.PUT("/:id", updateProduce)
		p.DELETE("/:id", deleteProduce)
	}

	d := g.Group("/deliveries")
	{
		d.GET("", queryDeliveries)
		d.POST("", scheduleDelivery)
		d.POST("/:id/cycle", cycleDelivery)
		d.GET("/export.csv", exportDeliveries("csv"))
		d.GET("/export.xlsx", exportDeliveries("xlsx"))
	}

	do := g.Group("/direct-orders")
	{
		do.GET("", listDirectOrders)
		do.GET("/:id", getDirectOrder)
		do.POST("/:id/accept", acceptDirectOrder)
		do.POST("/:id/reject", rejectDirectOrder)
		do.POST("/reset", resetDirectOrders)
	}

	o := g.Group("/orders")
	{
		o.GET("", listTrackedOrders)
		o.GET("/:id", getTrackedOrder)
		o.DELETE("/:id", deleteTrackedOrder)
		o.DELETE("", clearTrackedOrders)
	}
}

// produce

type produceRequest struct {
	Action    produce.Action `json:"action"`
	EditingID string         `json:"editingId"`
	Input     produce.Input  `json:"input"`
}

func listProduce(c *gin.Context) {
	c.JSON(http.StatusOK, container(c).Produce.List(c.Request.Context()))
}

func getProduce(c *gin.Context) {
	l, err := container(c).Produce.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		message(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, l)
}

func submitProduce(c *gin.Context) {
	var req produceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	l, err := container(c).Produce.Submit(c.Request.Context(), req.Action, req.EditingID, req.Input)
	if err != nil {
		message(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"listing": l, "message": req.Action.ResultMessage()})
}

func updateProduce(c *gin.Context) {
	var in produce.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		message(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	l, err := container(c).Produce.UpdateListing(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		message(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": l, "message": produce.ActionUpdate.ResultMessage()})
}

func deleteProduce(c *gin.Context) {
	c.JSON(http.StatusOK, container(c).Produce.Delete(c.Request.Context(), c.Param("id")))
}

// deliveries

func deliveryFilter(c *gin.Context) (delivery.Filter, bool) {
	f := delivery.DefaultFilter()
	if err := c.ShouldBindQuery(&f); err != nil {
		message(c, http.StatusBadRequest, "Invalid filter")
		return f, false
	}
	return f, true
}

func queryDeliveries(c *gin.Context) {
	f, ok := deliveryFilter(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	c.JSON(http.StatusOK, container(c).Deliveries.Query(c.Request.Context(), f, page))
}

func scheduleDelivery(c *gin.Context) {
	var form delivery.ScheduleForm
	if err := c.ShouldBindJSON(&form); err != nil {
		message(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	d, err := container(c).Deliveries.Schedule(c.Request.Context(), form)
	if err != nil {
		message(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"delivery": d, "message": delivery.ScheduledMessage})
}

func cycleDelivery(c *gin.Context) {
	d, err := container(c).Deliveries.CycleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		message(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, d)
}

var exportTypes = map[string]string{
	"csv":  "text/csv;charset=utf-8;",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// exportDeliveries downloads the filtered rows, all pages. The body is
// buffered so that a writer failure can still become a JSON error.
func exportDeliveries(ext string) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := deliveryFilter(c)
		if !ok {
			return
		}
		rows := container(c).Deliveries.Filtered(c.Request.Context(), f)

		var buf bytes.Buffer
		var err error
		if ext == "xlsx" {
			err = delivery.WriteXLSX(&buf, rows)
		} else {
			err = delivery.WriteCSV(&buf, rows)
		}
		if err != nil {
			logger.FromCtx(c.Request.Context()).Error("delivery export failed", zap.String("format", ext), zap.Error(err))
			message(c, http.StatusInternalServerError, delivery.ErrExportFailure.Error())
			return
		}

		c.Header("Content-Disposition", "attachment; filename="+delivery.ExportFileName(time.Now(), ext))
		c.Data(http.StatusOK, exportTypes[ext], buf.Bytes())
	}
}

// direct orders

func orderStatus(err error) int {
	switch {
	case errors.Is(err, directorder.ErrNotFound), errors.Is(err, trackorder.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, directorder.ErrNotPending):
		return http.StatusConflict
	}
	return http.StatusUnprocessableEntity
}

func listDirectOrders(c *gin.Context) {
	var f directorder.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		message(c, http.StatusBadRequest, "Invalid filter")
		return
	}
	c.JSON(http.StatusOK, container(c).DirectOrders.List(c.Request.Context(), f))
}

func getDirectOrder(c *gin.Context) {
	o, err := container(c).DirectOrders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		message(c, orderStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, o)
}

func acceptDirectOrder(c *gin.Context) {
	o, err := container(c).DirectOrders.Accept(c.Request.Context(), c.Param("id"))
	if err != nil {
		message(c, orderStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o, "message": directorder.MessageAccepted})
}

type rejectRequest struct {
	Reason string `json:"reason"`
	Other  string `json:"other"`
}

func rejectDirectOrder(c *gin.Context) {
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, err := container(c).DirectOrders.Reject(c.Request.Context(), c.Param("id"), req.Reason, req.Other)
	if err != nil {
		message(c, orderStatus(err), directorder.UserMessage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o, "message": directorder.MessageRejected})
}

func resetDirectOrders(c *gin.Context) {
	orders := container(c).DirectOrders.ResetToSeed(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"orders": orders, "message": directorder.MessageRefreshed})
}

// tracked orders

func listTrackedOrders(c *gin.Context) {
	var f trackorder.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		message(c, http.StatusBadRequest, "Invalid filter")
		return
	}
	c.JSON(http.StatusOK, container(c).TrackOrders.List(c.Request.Context(), f))
}

func getTrackedOrder(c *gin.Context) {
	o, err := container(c).TrackOrders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		message(c, orderStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, o)
}

func deleteTrackedOrder(c *gin.Context) {
	orders, err := container(c).TrackOrders.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		message(c, orderStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "message": trackorder.MessageDeleted})
}

func clearTrackedOrders(c *gin.Context) {
	container(c).TrackOrders.ClearAll(c.Request.Context())
	message(c, http.StatusOK, trackorder.MessageCleared)
}
