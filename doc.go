/*
Package nesiadmud is the persistence core of a multi-user text world.

Every character, object, room, account and socket of the world is an Entity. Entities carry little state of their
own: game modules attach typed data to them by installing auxiliaries. An auxiliary is described once, with the
entity kinds it applies to, a constructor for default values and a reader restoring values from saved data. Every
entity of a matching kind then carries its own instance of the auxiliary, which is saved, loaded and copied together
with the entity.

Saved data is a tree of storage sets (engine/storageset): string keys mapping to strings, integers, doubles, booleans,
nested sets and lists of sets. Storage sets are written to files in a line oriented text format, or to one of the
storage backends (filesystem, sqlite, mongodb, redis, redis cluster) configured in nesiadmud.ini.

Run the world

	func main() {
		nesiadmud.Initialize("nesiadmud.ini")
		nesiadmud.Install(auxiliary.Descriptor{
			Name:  "attributes",
			Kinds: auxiliary.Character,
			New:   newAttributes,
			Read:  readAttributes,
		})

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		nesiadmud.Run(ctx)
	}

Storage operations run in a separate goroutine. Their callbacks, like all timers, run in the world loop by Tick, so
game code never needs locks.
*/
package nesiadmud
