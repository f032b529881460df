package config

// Template is the starter file written by `waypoint init`.
const Template = `# Waypoint navigator configuration.
keys = "uuid"

[navigator]
router = "drawer"
routes = ["Home", "Settings"]
initial = "Home"
back_behavior = "history"

[navigator.children.Home]
router = "stack"
routes = ["Feed", "Article"]

[navigator.children.Home.params.Article]
id = 0

[navigator.children.Settings]
router = "tab"
routes = ["Account", "Appearance"]
back_behavior = "initialRoute"

[store]
backend = "file"
key = "default"
ttl = "720h"

[server]
addr = ":8080"
`
