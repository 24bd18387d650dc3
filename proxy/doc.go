// Package proxy forwards address collection requests to the Addresses
// service, built on httputil.ReverseProxy.
package proxy
