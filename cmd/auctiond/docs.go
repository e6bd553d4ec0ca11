package main

//go:generate swag init -g cmd/auctiond/main.go -o docs

// @title           Dutch Auction API
// @version         0.1.0
// @description     Descending-price auctions with atomic settlement, fee split and refunds.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
