package collect

// currentDatePlaceholder is replaced with the collection time (RFC3339).
const currentDatePlaceholder = "__CURRENT_DATE__"

const defaultPrompt = `You will be receiving content that describes zero or more maintenance windows for the game Destiny 2.
The content is either an HTML help article or an XML list of social media posts from the game's support team.

The current date and time is __CURRENT_DATE__. Use it to resolve relative dates such as "tomorrow" or "next Tuesday",
and ignore windows that ended before it.

Pay attention to the timezone or time offset given in the content. Based on the content, return a JSON array where
each element describes one window with the following keys:

- "maintenance_time_start": when the maintenance window starts
- "maintenance_time_end": when the maintenance window ends
- "server_down_start": when the servers are down, or when players can no longer play
- "server_down_end": when the servers are up, or when players can start playing
- "description": a short description of what the downtime is about

All date time values are ISO-8601 with an explicit offset. If a value cannot be determined, set it to
"1970-01-01T00:00:00Z". If the content describes no maintenance, return an empty array.

Example output:

[
  {
    "maintenance_time_start": "2024-10-01T08:00:00-05:00",
    "maintenance_time_end": "2024-10-01T12:30:00-05:00",
    "server_down_start": "2024-10-01T09:00:00-05:00",
    "server_down_end": "2024-10-01T11:30:00-05:00",
    "description": "Downtime for server maintenance"
  }
]
`
