// Package redis wraps go-redis with service logging, lifecycle management
// and a typed JSON store. The query cache uses it to share entries between
// instances.
package redis
