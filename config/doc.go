// Package config builds the logging pipeline from a configuration file.
//
// A file declares named formatters, filters and handlers and the loggers
// that use them:
//
//	app: shop
//	tracing:
//	  enabled: true
//	formatters:
//	  short:
//	    format: "{level} {name} [{context}] {message}"
//	  by_logger:
//	    type: dispatch
//	    routes:
//	      - {logger: 'shop\.db', formatter: short}
//	      - {logger: '', formatter: short}
//	filters:
//	  request:
//	    type: regex
//	    field: context
//	    pattern: 'request-\d+'
//	handlers:
//	  console:
//	    type: console
//	    formatter: by_logger
//	  users:
//	    type: multifile
//	    pattern: "/var/log/shop/{now:%Y}/{user}.log"
//	loggers:
//	  shop.db:
//	    level: DEBUG
//	    handlers: [console]
//	root:
//	  level: INFO
//	  handlers: [console, users]
//	  filters: [request]
//
// Init reads such a file, builds it and installs the loggers into the
// logger registry. Regular expression and template errors are reported by
// Init rather than when the first record is written. Watch does the same
// and applies the file again each time it is saved.
//
// A logger entry without handlers, like shop.http in
//
//	loggers:
//	  shop.http:
//	    level: TRACE
//
// writes through the handlers of its nearest configured ancestor.
package config
