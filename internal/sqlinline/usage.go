package sqlinline

const QInsertUsageEvent = `--sql e40f651c-a8b3-44c7-a911-bb8a0ed5f6ef
insert into usage_events(id, request_id, operation, backend, success, failure, latency_ms, created_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::boolean, $5::text, $6::int, now());
`

const QSelectUsageSummary = `--sql 3b1f0c9e-52a4-4d8e-9c6b-7a0e4f2d1c58
select operation,
       case when success then 'ok' else failure end as outcome,
       count(*)::bigint as calls,
       coalesce(avg(latency_ms), 0)::float8 as avg_latency_ms
from usage_events
where created_at >= $1::timestamptz
group by operation, outcome
order by operation, outcome;
`
